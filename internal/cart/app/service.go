package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/m7one/storefront/internal/cart/domain"
	"github.com/m7one/storefront/internal/pricing"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
	ErrNotFound  = errors.New("item not in cart")
)

// ChangeListener is notified with the new total item count after every
// successful mutation. Rendering hangs off this instead of mutating
// any view state directly.
type ChangeListener func(itemCount int64)

// Service is the authoritative in-memory cart. Mutations are
// serialized by a mutex, each one persists a full snapshot and then
// notifies listeners.
type Service struct {
	mu        sync.Mutex
	items     []domain.LineItem
	store     Store
	pricer    *pricing.Engine
	log       *slog.Logger
	listeners []ChangeListener
}

// NewService rehydrates the cart from the store. A load failure
// degrades to an empty cart: shopping must survive a bad snapshot.
func NewService(ctx context.Context, store Store, pricer *pricing.Engine, log *slog.Logger) *Service {
	s := &Service{store: store, pricer: pricer, log: log}

	items, err := store.Load(ctx)
	if err != nil {
		log.Warn("cart load failed, starting empty", slog.Any("err", err))
		items = nil
	}
	s.items = items
	return s
}

func (s *Service) Subscribe(fn ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// AddItem appends the item, or increments quantity when the product is
// already in the cart. Quantities below one count as one.
func (s *Service) AddItem(ctx context.Context, item domain.LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mutate(ctx, func() {
		for i := range s.items {
			if s.items[i].ProductID == item.ProductID {
				s.items[i].Quantity += item.Quantity
				return
			}
		}
		s.items = append(s.items, item)
	})
}

// RemoveItem deletes the matching line. Removing an absent product is
// a no-op, not an error.
func (s *Service) RemoveItem(ctx context.Context, productID int64) {
	s.mutate(ctx, func() {
		kept := s.items[:0]
		for _, it := range s.items {
			if it.ProductID != productID {
				kept = append(kept, it)
			}
		}
		s.items = kept
	})
}

// SetQuantity sets the line quantity; zero or less behaves as removal.
func (s *Service) SetQuantity(ctx context.Context, productID int64, quantity int64) error {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID)
		return nil
	}

	found := false
	s.mutate(ctx, func() {
		for i := range s.items {
			if s.items[i].ProductID == productID {
				s.items[i].Quantity = quantity
				found = true
				return
			}
		}
	})
	if !found {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Clear(ctx context.Context) {
	s.mutate(ctx, func() {
		s.items = nil
	})
}

func (s *Service) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

func (s *Service) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

func (s *Service) TotalItemCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countItems(s.items)
}

// Snapshot returns the items with freshly computed totals, or
// ErrEmptyCart when there is nothing to buy.
func (s *Service) Snapshot() (domain.Snapshot, error) {
	s.mu.Lock()
	items := cloneItems(s.items)
	s.mu.Unlock()

	if len(items) == 0 {
		return domain.Snapshot{}, ErrEmptyCart
	}

	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.Line{UnitPrice: it.UnitPrice, Quantity: it.Quantity})
	}
	b := s.pricer.Quote(lines)

	return domain.Snapshot{
		Items:     items,
		Subtotal:  b.Subtotal,
		Tax:       b.Tax,
		Shipping:  b.Shipping,
		Total:     b.Total,
		ItemCount: countItems(items),
	}, nil
}

// mutate runs fn under the lock, persists the result and notifies
// listeners. A persist failure is logged and swallowed: the in-memory
// state stays authoritative for this session.
func (s *Service) mutate(ctx context.Context, fn func()) {
	s.mu.Lock()
	fn()
	if err := s.store.Save(ctx, cloneItems(s.items)); err != nil {
		s.log.Warn("cart persist failed", slog.Any("err", err))
	}
	count := countItems(s.items)
	listeners := append([]ChangeListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(count)
	}
}

func cloneItems(items []domain.LineItem) []domain.LineItem {
	if items == nil {
		return nil
	}
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}

func countItems(items []domain.LineItem) int64 {
	var n int64
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
