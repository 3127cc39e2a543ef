package app

import (
	"context"
	"errors"
	"strings"

	"github.com/m7one/storefront/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Service struct {
	products   ProductReader
	categories CategoryReader
}

func NewService(products ProductReader, categories CategoryReader) *Service {
	return &Service{
		products:   products,
		categories: categories,
	}
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, ErrInvalidInput
	}
	return s.products.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, f Filters) ([]domain.Product, error) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Search = strings.TrimSpace(f.Search)

	switch f.SortBy {
	case SortPriceLow, SortPriceHigh, SortNewest, SortName:
	default:
		f.SortBy = SortName
	}

	return s.products.List(ctx, f)
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}
