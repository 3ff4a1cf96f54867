package catalog

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cafepos/internal/store"
)

// ErrInvalidProduct is returned when a product violates the field
// constraints (negative price, cost, or stock).
var ErrInvalidProduct = errors.New("invalid product")

// ErrPersistence is returned when a durable write does not complete. The
// in-memory change is kept; the caller decides whether to retry.
var ErrPersistence = errors.New("persistence failure")

// Service provides catalog management operations on a Store, writing the
// full collection back to the durable bridge after every change.
type Service struct {
	store  *Store
	bridge store.Bridge
	logger *zap.Logger
}

// NewService creates a new catalog Service.
func NewService(st *Store, bridge store.Bridge, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:  st,
		bridge: bridge,
		logger: logger,
	}
}

// Hydrate loads the product collection from the durable store. A missing
// key means a fresh installation and leaves the catalog empty.
func (s *Service) Hydrate() error {
	data, err := s.bridge.Load(store.ProductsKey)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load products: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("failed to decode products: %w", err)
	}

	s.store.Replace(products)
	s.logger.Info("catalog hydrated", zap.Int("products", len(products)))
	return nil
}

// List returns all products ordered by name.
func (s *Service) List() []Product {
	return s.store.List()
}

// Get returns the product with the given ID.
func (s *Service) Get(id string) (Product, error) {
	return s.store.Get(id)
}

// Upsert validates and stores a product, then persists the collection.
func (s *Service) Upsert(p Product) error {
	if p.Price.IsNegative() || p.Cost.IsNegative() || p.Stock < 0 {
		return fmt.Errorf("%w: price, cost and stock must not be negative", ErrInvalidProduct)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}

	if err := s.store.Set(p); err != nil {
		return err
	}

	if err := s.persist(); err != nil {
		return err
	}

	s.logger.Info("product upserted", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return nil
}

// Remove deletes a product, then persists the collection.
func (s *Service) Remove(id string) error {
	if err := s.store.Remove(id); err != nil {
		return err
	}

	if err := s.persist(); err != nil {
		return err
	}

	s.logger.Info("product removed", zap.String("product_id", id))
	return nil
}

// DecrementStock lowers a product's stock count and persists the
// collection. This is the management path; sale commits decrement stock
// through the checkout service so the write stays atomic with the ledger.
func (s *Service) DecrementStock(id string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: decrement quantity must be positive", ErrInvalidProduct)
	}

	if err := s.store.DecrementStock(id, quantity); err != nil {
		return err
	}

	if err := s.persist(); err != nil {
		return err
	}

	s.logger.Info("stock decremented", zap.String("product_id", id), zap.Int("quantity", quantity))
	return nil
}

// Store exposes the underlying in-memory collection so the checkout
// service can share it.
func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) persist() error {
	data, err := json.Marshal(s.store.List())
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}
	if err := s.bridge.Save(store.ProductsKey, data); err != nil {
		s.logger.Error("failed to persist products", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
