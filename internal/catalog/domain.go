package catalog

import "github.com/shopspring/decimal"

// Product represents a catalog entry available for sale.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Image       string          `json:"image,omitempty"`
	Barcode     string          `json:"barcode,omitempty"`
}
