package checkout

import (
	"time"

	"github.com/shopspring/decimal"
)

// Method is a recognized payment method.
type Method string

const (
	Cash Method = "cash"
	Card Method = "card"
	Pix  Method = "pix"
)

// Payment is a single tendered amount. A sale carries payments in entry
// order; the order matters for receipt display, not for settlement.
type Payment struct {
	Method Method          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleItem is a snapshot of a cart line frozen at commit time. It copies
// the product fields a receipt needs so later catalog edits cannot change
// the recorded sale.
type SaleItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Sale represents a settled transaction. Once created it is immutable and
// append-only in the ledger; the core never edits or deletes one.
type Sale struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Items    []SaleItem      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Payments []Payment       `json:"payments"`
}
