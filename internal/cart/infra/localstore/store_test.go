package localstore

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/m7one/storefront/internal/cart/domain"
)

func TestCartStoreRoundTrip(t *testing.T) {
	kv, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	store := NewCartStore(kv, "cart_items")
	ctx := context.Background()

	items := []domain.LineItem{
		{ProductID: 1, Name: "Keyboard", UnitPrice: decimal.RequireFromString("299"), Quantity: 2, Image: "kb.jpg"},
		{ProductID: 2, Name: "Mouse", UnitPrice: decimal.RequireFromString("49.50"), Quantity: 1},
	}
	if err := store.Save(ctx, items); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	if got[0].ProductID != 1 || got[1].ProductID != 2 {
		t.Fatalf("item order not preserved: %+v", got)
	}
	if !got[1].UnitPrice.Equal(decimal.RequireFromString("49.50")) {
		t.Fatalf("price mangled: %s", got[1].UnitPrice)
	}
}

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	kv, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	store := NewCartStore(kv, "cart_items")

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected empty cart, got %+v", got)
	}
}

func TestLoadCorruptSnapshotErrors(t *testing.T) {
	kv, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := kv.Set("cart_items", []byte("{not json")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	store := NewCartStore(kv, "cart_items")
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected decode error for corrupt snapshot")
	}
}

func TestTheme(t *testing.T) {
	kv, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := kv.Theme(); got != ThemeLight {
		t.Fatalf("default theme = %q, want light", got)
	}

	if err := kv.SetTheme(ThemeDark); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	if got := kv.Theme(); got != ThemeDark {
		t.Fatalf("theme = %q, want dark", got)
	}

	if err := kv.SetTheme("sepia"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}
