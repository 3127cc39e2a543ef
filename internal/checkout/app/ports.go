package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/m7one/storefront/internal/checkout/domain"
)

// CartSnapshot is the checkout view of the cart at session start.
type CartSnapshot struct {
	Items    []domain.Item
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Cart is the slice of the cart the session needs: a priced snapshot
// at entry and a clear after a placed order.
type Cart interface {
	Snapshot() (CartSnapshot, error)
	Clear(ctx context.Context)
}

// PlacedOrder is the submission outcome as checkout sees it.
type PlacedOrder struct {
	Accepted    bool
	OrderID     string
	OrderNumber string
	Message     string
}

// OrderPlacer hands a completed draft to the order service. The
// idempotency key is stable per draft so retries collapse server-side.
type OrderPlacer interface {
	Place(ctx context.Context, draft domain.OrderDraft, idempotencyKey string) (PlacedOrder, error)
}
