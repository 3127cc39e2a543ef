package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/m7one/storefront/internal/catalog/app"
	"github.com/m7one/storefront/internal/catalog/domain"
)

// Reader is an in-memory twin of the BaaS catalog client, used in
// tests and when the service runs without a backend configured.
type Reader struct {
	mu         sync.RWMutex
	products   []domain.Product
	categories []domain.Category
}

func NewReader(products []domain.Product, categories []domain.Category) *Reader {
	return &Reader{products: products, categories: categories}
}

func (r *Reader) Get(_ context.Context, id int64) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, app.ErrNotFound
}

func (r *Reader) List(_ context.Context, f app.Filters) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Product
	for _, p := range r.products {
		if !matches(p, f) {
			continue
		}
		out = append(out, p)
	}

	switch f.SortBy {
	case app.SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case app.SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[j].Price.LessThan(out[i].Price) })
	case app.SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}

	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *Reader) ListCategories(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

// Categories adapts the reader to the category port.
func (r *Reader) Categories() app.CategoryReader { return categoryReader{r} }

type categoryReader struct{ r *Reader }

func (c categoryReader) List(ctx context.Context) ([]domain.Category, error) {
	return c.r.ListCategories(ctx)
}

func matches(p domain.Product, f app.Filters) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Featured && !p.Featured {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && f.MaxPrice.LessThan(p.Price) {
		return false
	}
	return true
}
