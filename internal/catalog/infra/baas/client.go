package baas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/m7one/storefront/internal/catalog/app"
	"github.com/m7one/storefront/internal/catalog/domain"
)

// Client reads the catalog from the hosted backend's REST layer
// (PostgREST dialect: eq./ilike./gte. operators in query params).
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

func NewClient(baseURL, anonKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Get(ctx context.Context, id int64) (domain.Product, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	q.Set("limit", "1")

	var rows []domain.Product
	if err := c.get(ctx, "/rest/v1/products", q, &rows); err != nil {
		return domain.Product{}, err
	}
	if len(rows) == 0 {
		return domain.Product{}, app.ErrNotFound
	}
	return rows[0], nil
}

func (c *Client) List(ctx context.Context, f app.Filters) ([]domain.Product, error) {
	q := url.Values{}
	q.Set("select", "*")

	if f.Category != "" {
		q.Set("category", "eq."+f.Category)
	}
	if f.Featured {
		q.Set("featured", "eq.true")
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q.Set("or", fmt.Sprintf("(name.ilike.%s,description.ilike.%s)", pattern, pattern))
	}
	if f.MinPrice != nil {
		q.Add("price", "gte."+f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		q.Add("price", "lte."+f.MaxPrice.String())
	}

	switch f.SortBy {
	case app.SortPriceLow:
		q.Set("order", "price.asc")
	case app.SortPriceHigh:
		q.Set("order", "price.desc")
	case app.SortNewest:
		q.Set("order", "created_at.desc")
	default:
		q.Set("order", "name.asc")
	}

	q.Set("limit", strconv.Itoa(f.Limit))
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}

	var rows []domain.Product
	if err := c.get(ctx, "/rest/v1/products", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "id.asc")

	var rows []domain.Category
	if err := c.get(ctx, "/rest/v1/categories", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Products and Categories expose the client as the two catalog ports.
func (c *Client) Products() app.ProductReader    { return productReader{c} }
func (c *Client) Categories() app.CategoryReader { return categoryReader{c} }

type productReader struct{ c *Client }

func (r productReader) Get(ctx context.Context, id int64) (domain.Product, error) {
	return r.c.Get(ctx, id)
}

func (r productReader) List(ctx context.Context, f app.Filters) ([]domain.Product, error) {
	return r.c.List(ctx, f)
}

type categoryReader struct{ c *Client }

func (r categoryReader) List(ctx context.Context) ([]domain.Category, error) {
	return r.c.ListCategories(ctx)
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return app.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("catalog request %s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}
