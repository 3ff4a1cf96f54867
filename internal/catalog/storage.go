package catalog

import (
	"errors"
	"sort"
)

// ErrNotFound is returned when a product with the given ID is not found.
var ErrNotFound = errors.New("product not found")

// ErrEmptyID is returned when trying to store a product with an empty ID.
var ErrEmptyID = errors.New("empty product ID")

// ErrInsufficientStock is returned when a decrement would drive a
// product's stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// Store holds the in-memory product collection. It has no side effects
// beyond its own state; durable persistence is the Service's concern.
type Store struct {
	m map[string]*Product
}

// NewStore instantiates a new Store with an empty product map.
func NewStore() *Store {
	return &Store{
		m: map[string]*Product{},
	}
}

// Replace swaps the whole collection, used when hydrating from the
// durable store at startup.
func (s *Store) Replace(products []Product) {
	s.m = make(map[string]*Product, len(products))
	for i := range products {
		p := products[i]
		s.m[p.ID] = &p
	}
}

// Set inserts or overwrites a product.
// Returns ErrEmptyID if the product has an empty ID.
func (s *Store) Set(p Product) error {
	if p.ID == "" {
		return ErrEmptyID
	}
	s.m[p.ID] = &p
	return nil
}

// Get retrieves a copy of the product with the given ID.
// Returns ErrNotFound if the product is not found.
func (s *Store) Get(id string) (Product, error) {
	p, ok := s.m[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return *p, nil
}

// List retrieves copies of all products, ordered by name for stable
// enumeration.
func (s *Store) List() []Product {
	products := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Name != products[j].Name {
			return products[i].Name < products[j].Name
		}
		return products[i].ID < products[j].ID
	})
	return products
}

// Remove deletes the product with the given ID.
// Returns ErrNotFound if the product is not found.
func (s *Store) Remove(id string) error {
	if _, ok := s.m[id]; !ok {
		return ErrNotFound
	}
	delete(s.m, id)
	return nil
}

// DecrementStock reduces the product's stock by quantity. The count is
// never allowed to go negative.
func (s *Store) DecrementStock(id string, quantity int) error {
	p, ok := s.m[id]
	if !ok {
		return ErrNotFound
	}
	if quantity > p.Stock {
		return ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

// IncrementStock adds quantity back to the product's stock, used to roll
// back decrements when a commit fails to persist.
func (s *Store) IncrementStock(id string, quantity int) error {
	p, ok := s.m[id]
	if !ok {
		return ErrNotFound
	}
	p.Stock += quantity
	return nil
}
