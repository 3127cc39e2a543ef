package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "github.com/m7one/storefront/internal/cart/app"
	"github.com/m7one/storefront/internal/cart/infra/memstore"
	catalogapp "github.com/m7one/storefront/internal/catalog/app"
	catalogdomain "github.com/m7one/storefront/internal/catalog/domain"
	"github.com/m7one/storefront/internal/catalog/infra/memory"
	checkoutapp "github.com/m7one/storefront/internal/checkout/app"
	checkoutdomain "github.com/m7one/storefront/internal/checkout/domain"
	"github.com/m7one/storefront/internal/checkout/infra/adapter"
	"github.com/m7one/storefront/internal/pricing"
)

func newTestRouter(t *testing.T, placer checkoutapp.OrderPlacer) (http.Handler, *cartapp.Service) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg, err := pricing.ParseConfig("INR", "₹", "0", "25", "999")
	require.NoError(t, err)
	engine := pricing.NewEngine(cfg)

	cart := cartapp.NewService(context.Background(), memstore.New(), engine, log)

	catalogReader := memory.NewReader([]catalogdomain.Product{
		{ID: 1, Name: "Keyboard", Price: decimal.RequireFromString("299"), Category: "electronics", Active: true},
		{ID: 2, Name: "Walnut Desk", Price: decimal.RequireFromString("1500"), Category: "furniture", Active: true},
	}, []catalogdomain.Category{
		{ID: 1, Name: "electronics"},
		{ID: 2, Name: "furniture"},
	})
	catalog := catalogapp.NewService(catalogReader, catalogReader.Categories())

	validator := checkoutapp.NewValidator(checkoutapp.DeliveryPolicy{
		RegionName:      "Jammu & Kashmir",
		RegionKeywords:  []string{"jammu", "kashmir"},
		AllowedPincodes: []string{"192231", "192233"},
	}, []string{"cod", "card", "paypal", "apple"})
	promos := checkoutapp.NewPromoSet([]checkoutapp.PromoRule{
		{Code: "SAVE10", Kind: checkoutapp.PromoPercentage, Percent: decimal.RequireFromString("10")},
		{Code: "FREESHIP", Kind: checkoutapp.PromoShipping},
	})
	manager := checkoutapp.NewManager(validator, promos, placer, log)

	srv := NewServer(Options{
		Catalog:  catalog,
		Cart:     cart,
		Checkout: manager,
		CartPort: adapter.NewCart(cart),
		Log:      log,
	})
	return srv.Router(), cart
}

type acceptAllPlacer struct{ keys []string }

func (p *acceptAllPlacer) Place(_ context.Context, _ checkoutdomain.OrderDraft, key string) (checkoutapp.PlacedOrder, error) {
	p.keys = append(p.keys, key)
	return checkoutapp.PlacedOrder{Accepted: true, OrderID: "7", OrderNumber: "ORD-20260829-000007"}, nil
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, &acceptAllPlacer{})

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestProductEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, &acceptAllPlacer{})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products?category=electronics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Products []catalogdomain.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Products, 1)
	assert.Equal(t, "Keyboard", listing.Products[0].Name)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/categories", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, &acceptAllPlacer{})

	// Empty cart is a normal 200 with no items.
	rec := doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"id": 1, "name": "Keyboard", "price": "299", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var count struct {
		ItemCount int64 `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, int64(2), count.ItemCount)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap struct {
		Total decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.True(t, snap.Total.Equal(decimal.RequireFromString("623")), "total %s", snap.Total)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/cart/items/1", map[string]any{"quantity": 5})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/cart/items/42", map[string]any{"quantity": 5})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/cart/items/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckoutFlow(t *testing.T) {
	placer := &acceptAllPlacer{}
	router, _ := newTestRouter(t, placer)

	// Checkout with an empty cart is refused.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"id": 1, "name": "Keyboard", "price": "299", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var session struct {
		SessionID string `json:"session_id"`
		Step      int    `json:"step"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.SessionID)
	assert.Equal(t, 1, session.Step)

	base := "/api/v1/checkout/" + session.SessionID

	// Invalid shipping keeps the session on step 1.
	rec = doJSON(t, router, http.MethodPost, base+"/shipping", map[string]any{
		"first_name": "Asha",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	shipping := map[string]any{
		"first_name": "Asha", "last_name": "Koul",
		"email": "asha@example.com", "phone": "9876543210",
		"address": "12 Lal Chowk", "city": "Srinagar",
		"state": "Jammu & Kashmir", "zip": "192231", "country": "India",
	}
	rec = doJSON(t, router, http.MethodPost, base+"/shipping", shipping)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, 2, session.Step)

	rec = doJSON(t, router, http.MethodPost, base+"/payment", map[string]any{"method": "cod"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, base+"/promo", map[string]any{"code": "SAVE10"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, base+"/place", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var conf struct {
		OrderNumber string          `json:"order_number"`
		Total       decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conf))
	assert.Equal(t, "ORD-20260829-000007", conf.OrderNumber)
	assert.True(t, conf.Total.Equal(decimal.RequireFromString("563.2")), "total %s", conf.Total)
	require.Len(t, placer.keys, 1)

	// The cart was consumed by the placed order.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckoutStepGuards(t *testing.T) {
	router, _ := newTestRouter(t, &acceptAllPlacer{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"id": 1, "name": "Keyboard", "price": "299", "quantity": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var session struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	base := "/api/v1/checkout/" + session.SessionID

	rec = doJSON(t, router, http.MethodPost, base+"/step", map[string]any{"step": 3})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, base+"/place", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/checkout/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimit(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
