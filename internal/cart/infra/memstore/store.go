package memstore

import (
	"context"
	"sync"

	"github.com/m7one/storefront/internal/cart/domain"
)

// Store holds the cart snapshot in memory. Used in tests and when the
// service runs without durable storage configured.
type Store struct {
	mu    sync.Mutex
	items []domain.LineItem
}

func New() *Store {
	return &Store{}
}

func (s *Store) Load(_ context.Context) ([]domain.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.LineItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Store) Save(_ context.Context, items []domain.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]domain.LineItem, len(items))
	copy(s.items, items)
	return nil
}
