package checkout

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"cafepos/internal/catalog"
	"cafepos/internal/store"
)

// failingBridge rejects the atomic commit write, simulating a full disk.
type failingBridge struct {
	*store.MemoryBridge
}

func (f *failingBridge) SaveAll(map[string][]byte) error {
	return errors.New("disk full")
}

func newTestService(t *testing.T) (*Service, *catalog.Store, *Cart) {
	t.Helper()
	st := newTestCatalog(t)
	svc := NewService(st, store.NewMemoryBridge(), zaptest.NewLogger(t))
	return svc, st, NewCart(st)
}

func exactPayments() []Payment {
	return []Payment{
		{Method: Cash, Amount: decimal.NewFromFloat(10.00)},
		{Method: Card, Amount: decimal.NewFromFloat(5.00)},
	}
}

func TestCompleteSaleHappyPath(t *testing.T) {
	svc, st, cart := newTestService(t)

	assert.NoError(t, cart.AddItem("a", 2))
	assert.NoError(t, cart.AddItem("b", 1))

	sale, err := svc.CompleteSale(cart, decimal.Zero, exactPayments())
	assert.NoError(t, err)
	assert.NotNil(t, sale)

	assert.NotEmpty(t, sale.ID)
	assert.False(t, sale.Date.IsZero())
	assert.True(t, sale.Subtotal.Equal(decimal.NewFromFloat(15.00)))
	assert.True(t, sale.Total.Equal(decimal.NewFromFloat(15.00)))
	assert.Len(t, sale.Items, 2)
	assert.Len(t, sale.Payments, 2)
	assert.Equal(t, Cash, sale.Payments[0].Method, "payment entry order must be preserved")
	assert.Equal(t, Card, sale.Payments[1].Method)

	a, _ := st.Get("a")
	b, _ := st.Get("b")
	assert.Equal(t, 8, a.Stock, "sold 2 of 10")
	assert.Equal(t, 4, b.Stock, "sold 1 of 5")

	assert.Empty(t, cart.Lines(), "cart must be cleared after a committed sale")
	assert.Len(t, svc.Sales(), 1)
	assert.Equal(t, sale.ID, svc.Sales()[0].ID)
}

func TestCompleteSalePaymentMismatchLeavesEverythingUnchanged(t *testing.T) {
	svc, st, cart := newTestService(t)

	assert.NoError(t, cart.AddItem("a", 2))
	assert.NoError(t, cart.AddItem("b", 1))

	sale, err := svc.CompleteSale(cart, decimal.Zero, []Payment{
		{Method: Cash, Amount: decimal.NewFromFloat(10.00)},
	})
	assert.ErrorIs(t, err, ErrPaymentMismatch)
	assert.Contains(t, err.Error(), "-5.00")
	assert.Nil(t, sale)

	assert.Empty(t, svc.Sales(), "ledger length must be unchanged on rejection")
	a, _ := st.Get("a")
	b, _ := st.Get("b")
	assert.Equal(t, 10, a.Stock)
	assert.Equal(t, 5, b.Stock)
	assert.Len(t, cart.Lines(), 2, "a rejected attempt returns the cart to Open unchanged")
}

func TestCompleteSaleWithDiscount(t *testing.T) {
	svc, _, cart := newTestService(t)

	assert.NoError(t, cart.AddItem("a", 2)) // subtotal 11.00
	discount := decimal.NewFromFloat(1.00)

	sale, err := svc.CompleteSale(cart, discount, []Payment{
		{Method: Pix, Amount: decimal.NewFromFloat(10.00)},
	})
	assert.NoError(t, err)
	assert.True(t, sale.Subtotal.Equal(decimal.NewFromFloat(11.00)))
	assert.True(t, sale.Discount.Equal(discount))
	assert.True(t, sale.Total.Equal(decimal.NewFromFloat(10.00)))
}

func TestCompleteSaleDiscountValidation(t *testing.T) {
	svc, _, cart := newTestService(t)
	assert.NoError(t, cart.AddItem("b", 1)) // subtotal 4.00

	_, err := svc.CompleteSale(cart, decimal.NewFromFloat(-1.00), exactPayments())
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	_, err = svc.CompleteSale(cart, decimal.NewFromFloat(4.01), exactPayments())
	assert.ErrorIs(t, err, ErrInvalidDiscount, "discount must not exceed the subtotal")
}

func TestCompleteSaleEmptyCart(t *testing.T) {
	svc, _, cart := newTestService(t)

	_, err := svc.CompleteSale(cart, decimal.Zero, exactPayments())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, svc.Sales())
}

func TestCompleteSaleRecheckStockAtCommit(t *testing.T) {
	svc, st, cart := newTestService(t)
	assert.NoError(t, cart.AddItem("b", 5))

	// Stock moves out from under the cart between add and checkout.
	assert.NoError(t, st.DecrementStock("b", 3))

	_, err := svc.CompleteSale(cart, decimal.Zero, []Payment{
		{Method: Cash, Amount: decimal.NewFromFloat(20.00)},
	})
	assert.ErrorIs(t, err, ErrOutOfStock)

	b, _ := st.Get("b")
	assert.Equal(t, 2, b.Stock, "rejected checkout must not touch stock")
	assert.Empty(t, svc.Sales())
	assert.Len(t, cart.Lines(), 1)
}

func TestCompleteSaleSnapshotSurvivesCatalogEdits(t *testing.T) {
	svc, st, cart := newTestService(t)

	assert.NoError(t, cart.AddItem("a", 1))
	sale, err := svc.CompleteSale(cart, decimal.Zero, []Payment{
		{Method: Cash, Amount: decimal.NewFromFloat(5.50)},
	})
	assert.NoError(t, err)

	// Rename and reprice the product after the sale.
	assert.NoError(t, st.Set(catalog.Product{
		ID: "a", Name: "Double Espresso", Price: decimal.NewFromFloat(7.00), Stock: 9,
	}))

	recorded := svc.Sales()[0].Items[0]
	assert.Equal(t, "Espresso", recorded.Name, "sale snapshot must be decoupled from catalog edits")
	assert.True(t, recorded.Price.Equal(decimal.NewFromFloat(5.50)))
	assert.Equal(t, "Espresso", sale.Items[0].Name)
}

func TestLedgerIsMostRecentFirst(t *testing.T) {
	svc, _, cart := newTestService(t)

	assert.NoError(t, cart.AddItem("a", 1))
	first, err := svc.CompleteSale(cart, decimal.Zero, []Payment{{Method: Cash, Amount: decimal.NewFromFloat(5.50)}})
	assert.NoError(t, err)

	assert.NoError(t, cart.AddItem("b", 1))
	second, err := svc.CompleteSale(cart, decimal.Zero, []Payment{{Method: Card, Amount: decimal.NewFromFloat(4.00)}})
	assert.NoError(t, err)

	sales := svc.Sales()
	assert.Len(t, sales, 2)
	assert.Equal(t, second.ID, sales[0].ID, "most recently committed sale is first")
	assert.Equal(t, first.ID, sales[1].ID)
}

func TestCompleteSalePersistenceFailureRollsBack(t *testing.T) {
	st := newTestCatalog(t)
	svc := NewService(st, &failingBridge{store.NewMemoryBridge()}, zaptest.NewLogger(t))
	cart := NewCart(st)

	assert.NoError(t, cart.AddItem("a", 2))
	assert.NoError(t, cart.AddItem("b", 1))

	sale, err := svc.CompleteSale(cart, decimal.Zero, exactPayments())
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Nil(t, sale)

	a, _ := st.Get("a")
	b, _ := st.Get("b")
	assert.Equal(t, 10, a.Stock, "stock decrement must be rolled back")
	assert.Equal(t, 5, b.Stock)
	assert.Empty(t, svc.Sales(), "ledger append must be rolled back")
	assert.Len(t, cart.Lines(), 2, "cart must survive a failed commit")
}

func TestLedgerRoundTripThroughBridge(t *testing.T) {
	bridge := store.NewMemoryBridge()
	st := newTestCatalog(t)
	svc := NewService(st, bridge, zaptest.NewLogger(t))
	cart := NewCart(st)

	assert.NoError(t, cart.AddItem("a", 2))
	sale, err := svc.CompleteSale(cart, decimal.Zero, []Payment{{Method: Cash, Amount: decimal.NewFromFloat(11.00)}})
	assert.NoError(t, err)

	// A fresh service over the same bridge sees the committed sale.
	restored := NewService(catalog.NewStore(), bridge, zaptest.NewLogger(t))
	assert.NoError(t, restored.Hydrate())

	sales := restored.Sales()
	assert.Len(t, sales, 1)
	assert.Equal(t, sale.ID, sales[0].ID)
	assert.True(t, sales[0].Total.Equal(decimal.NewFromFloat(11.00)))
	assert.Len(t, sales[0].Payments, 1)
	assert.Equal(t, Cash, sales[0].Payments[0].Method)
}

func TestHydrateEmptyBridge(t *testing.T) {
	svc := NewService(catalog.NewStore(), store.NewMemoryBridge(), zaptest.NewLogger(t))
	assert.NoError(t, svc.Hydrate(), "a missing sales key means a fresh ledger")
	assert.Empty(t, svc.Sales())
}
