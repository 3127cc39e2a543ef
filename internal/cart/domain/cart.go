package domain

import "github.com/shopspring/decimal"

// LineItem is one product entry in the cart. JSON tags match the
// durable storage layout, so snapshots round-trip unchanged.
type LineItem struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

// Snapshot is the cart plus its derived totals, handed to checkout as
// a read-only copy. Totals are always recomputed from Items, never
// stored.
type Snapshot struct {
	Items     []LineItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int64           `json:"item_count"`
}
