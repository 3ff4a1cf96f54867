package checkout

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"cafepos/internal/catalog"
)

// ErrOutOfStock is returned when a requested quantity exceeds the
// product's available stock.
var ErrOutOfStock = errors.New("out of stock")

// ErrInvalidQuantity is returned when adding a non-positive quantity.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Line is an in-progress cart entry. Name and UnitPrice are copied from
// the catalog when the line is created; stock checks always consult the
// live catalog.
type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Cart accumulates lines for the current, not-yet-settled transaction.
// It never mutates the catalog; it only reads stock counts from it. A
// cart is owned by a single checkout flow and must not be shared.
type Cart struct {
	store *catalog.Store
	lines []Line
}

// NewCart creates an empty cart bound to the given catalog store.
func NewCart(store *catalog.Store) *Cart {
	return &Cart{store: store}
}

// AddItem puts quantity units of the product into the cart, merging into
// an existing line when the product is already present. Fails with
// ErrOutOfStock if the resulting quantity would exceed current stock, so
// the operator gets immediate feedback instead of a checkout surprise.
func (c *Cart) AddItem(productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	p, err := c.store.Get(productID)
	if err != nil {
		return err
	}

	newQuantity := quantity
	if i := c.lineIndex(productID); i >= 0 {
		newQuantity += c.lines[i].Quantity
	}
	if newQuantity > p.Stock {
		return fmt.Errorf("%w: requested %d of %q, %d available", ErrOutOfStock, newQuantity, p.Name, p.Stock)
	}

	if i := c.lineIndex(productID); i >= 0 {
		c.lines[i].Quantity = newQuantity
		return nil
	}

	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  quantity,
	})
	return nil
}

// UpdateQuantity sets the line's quantity. A quantity of zero or less
// removes the line; anything else is re-validated against current stock.
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	i := c.lineIndex(productID)
	if i < 0 {
		return catalog.ErrNotFound
	}

	if quantity <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return nil
	}

	p, err := c.store.Get(productID)
	if err != nil {
		return err
	}
	if quantity > p.Stock {
		return fmt.Errorf("%w: requested %d of %q, %d available", ErrOutOfStock, quantity, p.Name, p.Stock)
	}

	c.lines[i].Quantity = quantity
	return nil
}

// RemoveItem drops the line unconditionally. Removing an absent product
// is a no-op.
func (c *Cart) RemoveItem(productID string) {
	if i := c.lineIndex(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Clear empties the cart, used after a completed sale or explicit cancel.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the current cart lines in entry order.
func (c *Cart) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Subtotal sums price times quantity over the current lines. It is
// recomputed fresh on every call; there is no cached total to go stale.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range c.lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return subtotal
}

func (c *Cart) lineIndex(productID string) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
