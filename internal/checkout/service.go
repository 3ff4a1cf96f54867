package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cafepos/internal/catalog"
	"cafepos/internal/store"
)

// ErrEmptyCart is returned when completing a sale against a cart with no
// lines.
var ErrEmptyCart = errors.New("cart is empty")

// ErrInvalidDiscount is returned when the discount is negative or exceeds
// the cart subtotal.
var ErrInvalidDiscount = errors.New("invalid discount")

// ErrPersistence is returned when the durable commit write fails. The
// in-memory ledger and stock changes are rolled back before it surfaces;
// retrying is the caller's decision, not the core's.
var ErrPersistence = errors.New("persistence failure")

// Service turns finalized carts into immutable sales and owns the ledger.
// It is the only mutation path for sales history and, once checkout
// begins, for stock counts.
type Service struct {
	store  *catalog.Store
	bridge store.Bridge
	logger *zap.Logger
	sales  []*Sale // most-recent-first
}

// NewService creates a new checkout Service over the shared catalog store
// and the durable bridge.
func NewService(st *catalog.Store, bridge store.Bridge, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:  st,
		bridge: bridge,
		logger: logger,
	}
}

// Hydrate loads the sales ledger from the durable store. A missing key
// means no sales have ever been recorded.
func (s *Service) Hydrate() error {
	data, err := s.bridge.Load(store.SalesKey)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load sales: %w", err)
	}

	if err := json.Unmarshal(data, &s.sales); err != nil {
		return fmt.Errorf("failed to decode sales: %w", err)
	}

	s.logger.Info("ledger hydrated", zap.Int("sales", len(s.sales)))
	return nil
}

// Sales enumerates the ledger, most recently committed sale first.
func (s *Service) Sales() []*Sale {
	sales := make([]*Sale, len(s.sales))
	copy(sales, s.sales)
	return sales
}

// CompleteSale settles the cart against the tendered payments. On success
// the sale is appended to the ledger, the sold stock is decremented, both
// collections are persisted in one atomic write, and the cart is cleared.
// On any failure nothing observable changes and the cart stays intact.
func (s *Service) CompleteSale(cart *Cart, discount decimal.Decimal, payments []Payment) (*Sale, error) {
	lines := cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Never trust a precomputed total from the caller.
	subtotal := cart.Subtotal()
	if discount.IsNegative() || discount.GreaterThan(subtotal) {
		return nil, fmt.Errorf("%w: must be between 0 and %s", ErrInvalidDiscount, subtotal.StringFixed(2))
	}
	total := subtotal.Sub(discount)

	if err := ReconcilePayments(total, payments); err != nil {
		return nil, err
	}

	// Stock may have moved since the lines were added; re-validate every
	// line against the live catalog before touching anything.
	for _, l := range lines {
		p, err := s.store.Get(l.ProductID)
		if err != nil {
			return nil, err
		}
		if l.Quantity > p.Stock {
			return nil, fmt.Errorf("%w: requested %d of %q, %d available", ErrOutOfStock, l.Quantity, p.Name, p.Stock)
		}
	}

	sale := &Sale{
		ID:       uuid.NewString(),
		Date:     time.Now(),
		Items:    snapshotLines(lines),
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
		Payments: append([]Payment(nil), payments...),
	}

	// Apply both in-memory effects, then persist them as one write. If
	// the write fails, undo both so the rejected attempt leaves no trace.
	decremented := make([]Line, 0, len(lines))
	rollback := func() {
		for _, l := range decremented {
			if err := s.store.IncrementStock(l.ProductID, l.Quantity); err != nil {
				s.logger.Error("failed to restore stock during rollback",
					zap.String("product_id", l.ProductID), zap.Error(err))
			}
		}
	}

	for _, l := range lines {
		if err := s.store.DecrementStock(l.ProductID, l.Quantity); err != nil {
			rollback()
			return nil, err
		}
		decremented = append(decremented, l)
	}

	s.sales = append([]*Sale{sale}, s.sales...)

	if err := s.persist(); err != nil {
		s.sales = s.sales[1:]
		rollback()
		return nil, err
	}

	cart.Clear()

	s.logger.Info("sale completed",
		zap.String("sale_id", sale.ID),
		zap.Int("items", len(sale.Items)),
		zap.String("total", sale.Total.StringFixed(2)),
	)
	return sale, nil
}

func (s *Service) persist() error {
	salesData, err := json.Marshal(s.sales)
	if err != nil {
		return fmt.Errorf("failed to encode sales: %w", err)
	}
	productsData, err := json.Marshal(s.store.List())
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}

	err = s.bridge.SaveAll(map[string][]byte{
		store.SalesKey:    salesData,
		store.ProductsKey: productsData,
	})
	if err != nil {
		s.logger.Error("failed to persist sale commit", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func snapshotLines(lines []Line) []SaleItem {
	items := make([]SaleItem, 0, len(lines))
	for _, l := range lines {
		quantity := decimal.NewFromInt(int64(l.Quantity))
		items = append(items, SaleItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.UnitPrice.Mul(quantity),
		})
	}
	return items
}
