package app

import (
	"context"

	"github.com/m7one/storefront/internal/cart/domain"
)

// Store persists the full cart snapshot under a fixed storage key.
// Implementations must treat a missing key as an empty cart.
type Store interface {
	Load(ctx context.Context) ([]domain.LineItem, error)
	Save(ctx context.Context, items []domain.LineItem) error
}
