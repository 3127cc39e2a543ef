package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/m7one/storefront/internal/catalog/domain"
)

type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortNewest    SortKey = "newest"
)

// Filters narrows a product listing. Zero values mean "no filter".
type Filters struct {
	Category string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Featured bool
	SortBy   SortKey
	Offset   int
	Limit    int
}

type ProductReader interface {
	Get(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context, f Filters) ([]domain.Product, error)
}

type CategoryReader interface {
	List(ctx context.Context) ([]domain.Category, error)
}
