package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m7one/storefront/internal/cart/app"
	"github.com/m7one/storefront/internal/cart/domain"
	"github.com/m7one/storefront/internal/cart/infra/memstore"
	"github.com/m7one/storefront/internal/pricing"
)

func testPricer(t *testing.T) *pricing.Engine {
	t.Helper()
	cfg, err := pricing.ParseConfig("INR", "₹", "0", "25", "999")
	require.NoError(t, err)
	return pricing.NewEngine(cfg)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func item(id int64, price string, qty int64) domain.LineItem {
	return domain.LineItem{
		ProductID: id,
		Name:      "product",
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

type brokenStore struct {
	loadErr error
	saveErr error
}

func (b *brokenStore) Load(context.Context) ([]domain.LineItem, error) { return nil, b.loadErr }
func (b *brokenStore) Save(context.Context, []domain.LineItem) error   { return b.saveErr }

func TestAddItemMergesByProductID(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(ctx, memstore.New(), testPricer(t), quietLogger())

	svc.AddItem(ctx, item(1, "299", 2))
	svc.AddItem(ctx, item(1, "299", 1))
	svc.AddItem(ctx, item(2, "49.50", 1))

	items := svc.Items()
	require.Len(t, items, 2)
	assert.EqualValues(t, 3, items[0].Quantity)
	assert.EqualValues(t, 4, svc.TotalItemCount())

	seen := map[int64]bool{}
	for _, it := range items {
		require.False(t, seen[it.ProductID], "duplicate product id %d", it.ProductID)
		seen[it.ProductID] = true
	}
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(ctx, memstore.New(), testPricer(t), quietLogger())

	svc.AddItem(ctx, item(1, "100", 0))
	assert.EqualValues(t, 1, svc.TotalItemCount())
}

func TestSetQuantity(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(ctx, memstore.New(), testPricer(t), quietLogger())
	svc.AddItem(ctx, item(1, "100", 2))

	t.Run("updates existing line", func(t *testing.T) {
		require.NoError(t, svc.SetQuantity(ctx, 1, 5))
		assert.EqualValues(t, 5, svc.TotalItemCount())
	})

	t.Run("zero behaves as removal", func(t *testing.T) {
		require.NoError(t, svc.SetQuantity(ctx, 1, 0))
		assert.True(t, svc.IsEmpty())
	})

	t.Run("unknown product is reported", func(t *testing.T) {
		err := svc.SetQuantity(ctx, 42, 3)
		assert.ErrorIs(t, err, app.ErrNotFound)
	})
}

func TestRemoveAbsentItemIsNoop(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(ctx, memstore.New(), testPricer(t), quietLogger())
	svc.AddItem(ctx, item(1, "100", 1))

	svc.RemoveItem(ctx, 999)
	assert.EqualValues(t, 1, svc.TotalItemCount())
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(ctx, memstore.New(), testPricer(t), quietLogger())

	t.Run("empty cart yields sentinel error", func(t *testing.T) {
		_, err := svc.Snapshot()
		assert.ErrorIs(t, err, app.ErrEmptyCart)
	})

	t.Run("totals derive from items", func(t *testing.T) {
		svc.AddItem(ctx, item(1, "299", 2))

		snap, err := svc.Snapshot()
		require.NoError(t, err)
		assert.True(t, snap.Subtotal.Equal(decimal.RequireFromString("598")), "subtotal = %s", snap.Subtotal)
		assert.True(t, snap.Shipping.Equal(decimal.RequireFromString("25")), "shipping = %s", snap.Shipping)
		assert.True(t, snap.Total.Equal(decimal.RequireFromString("623")), "total = %s", snap.Total)
		assert.EqualValues(t, 2, snap.ItemCount)
	})
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	first := app.NewService(ctx, store, testPricer(t), quietLogger())
	first.AddItem(ctx, item(2, "49.50", 1))
	first.AddItem(ctx, item(1, "299", 2))
	first.AddItem(ctx, item(3, "10", 4))
	want := first.Items()

	second := app.NewService(ctx, store, testPricer(t), quietLogger())
	assert.Equal(t, want, second.Items(), "rehydrated cart must preserve items and order")
}

func TestClearEmptiesCartAndStore(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := app.NewService(ctx, store, testPricer(t), quietLogger())
	svc.AddItem(ctx, item(1, "299", 2))

	svc.Clear(ctx)
	assert.True(t, svc.IsEmpty())

	reloaded := app.NewService(ctx, store, testPricer(t), quietLogger())
	assert.True(t, reloaded.IsEmpty())
}

func TestStorageFailuresAreNotFatal(t *testing.T) {
	ctx := context.Background()

	t.Run("load failure degrades to empty", func(t *testing.T) {
		store := &brokenStore{loadErr: errors.New("disk gone")}
		svc := app.NewService(ctx, store, testPricer(t), quietLogger())
		assert.True(t, svc.IsEmpty())
	})

	t.Run("save failure keeps memory authoritative", func(t *testing.T) {
		store := &brokenStore{saveErr: errors.New("disk full")}
		svc := app.NewService(ctx, store, testPricer(t), quietLogger())
		svc.AddItem(ctx, item(1, "299", 2))
		assert.EqualValues(t, 2, svc.TotalItemCount())
	})
}

func TestListenersSeeItemCount(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(ctx, memstore.New(), testPricer(t), quietLogger())

	var counts []int64
	svc.Subscribe(func(n int64) { counts = append(counts, n) })

	svc.AddItem(ctx, item(1, "100", 2))
	svc.AddItem(ctx, item(2, "50", 1))
	svc.RemoveItem(ctx, 1)

	assert.Equal(t, []int64{2, 3, 1}, counts)
}
