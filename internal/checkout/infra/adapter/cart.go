package adapter

import (
	"context"
	"errors"

	cartapp "github.com/m7one/storefront/internal/cart/app"
	checkoutapp "github.com/m7one/storefront/internal/checkout/app"
	checkoutdomain "github.com/m7one/storefront/internal/checkout/domain"
)

// Cart lets checkout consume the cart service through its own port,
// keeping the two contexts decoupled.
type Cart struct {
	svc *cartapp.Service
}

func NewCart(svc *cartapp.Service) *Cart {
	return &Cart{svc: svc}
}

func (c *Cart) Snapshot() (checkoutapp.CartSnapshot, error) {
	snap, err := c.svc.Snapshot()
	if err != nil {
		if errors.Is(err, cartapp.ErrEmptyCart) {
			return checkoutapp.CartSnapshot{}, checkoutapp.ErrEmptyCart
		}
		return checkoutapp.CartSnapshot{}, err
	}

	items := make([]checkoutdomain.Item, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, checkoutdomain.Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return checkoutapp.CartSnapshot{
		Items:    items,
		Subtotal: snap.Subtotal,
		Tax:      snap.Tax,
		Shipping: snap.Shipping,
		Total:    snap.Total,
	}, nil
}

func (c *Cart) Clear(ctx context.Context) {
	c.svc.Clear(ctx)
}
