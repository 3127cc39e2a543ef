package app

import (
	"context"

	"github.com/m7one/storefront/internal/order/domain"
)

// Submitter delivers a submission to the order backend. A transport
// failure is an error; a rejected order is a Result with Success false.
type Submitter interface {
	Submit(ctx context.Context, sub domain.Submission) (domain.Result, error)
}

// PlacedEvent is the analytics view of a successful order.
type PlacedEvent struct {
	OrderNumber   string `json:"order_number"`
	Total         string `json:"total"`
	ItemCount     int    `json:"item_count"`
	PaymentMethod string `json:"payment_method"`
}

type EventPublisher interface {
	OrderPlaced(ctx context.Context, e PlacedEvent) error
}
