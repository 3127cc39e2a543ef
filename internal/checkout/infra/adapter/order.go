package adapter

import (
	"context"

	checkoutapp "github.com/m7one/storefront/internal/checkout/app"
	checkoutdomain "github.com/m7one/storefront/internal/checkout/domain"
	orderapp "github.com/m7one/storefront/internal/order/app"
	orderdomain "github.com/m7one/storefront/internal/order/domain"
)

// OrderPlacer translates a finished checkout draft into an order
// submission.
type OrderPlacer struct {
	svc *orderapp.Service
}

func NewOrderPlacer(svc *orderapp.Service) *OrderPlacer {
	return &OrderPlacer{svc: svc}
}

func (p *OrderPlacer) Place(ctx context.Context, draft checkoutdomain.OrderDraft, idempotencyKey string) (checkoutapp.PlacedOrder, error) {
	items := make([]orderdomain.Item, 0, len(draft.Items))
	for _, it := range draft.Items {
		items = append(items, orderdomain.Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}

	sub := orderdomain.Submission{
		IdempotencyKey: idempotencyKey,
		CustomerInfo: orderdomain.CustomerInfo{
			FirstName: draft.CustomerInfo.FirstName,
			LastName:  draft.CustomerInfo.LastName,
			Email:     draft.CustomerInfo.Email,
			Phone:     draft.CustomerInfo.Phone,
		},
		ShippingAddress: orderdomain.ShippingAddress{
			Address: draft.ShippingAddress.Address,
			City:    draft.ShippingAddress.City,
			State:   draft.ShippingAddress.State,
			Zip:     draft.ShippingAddress.Zip,
			Country: draft.ShippingAddress.Country,
		},
		PaymentMethod: string(draft.Payment.Method),
		Items:         items,
		Subtotal:      draft.Subtotal,
		Tax:           draft.Tax,
		Shipping:      draft.Shipping,
		Total:         draft.Total,
	}

	result, err := p.svc.PlaceOrder(ctx, sub)
	if err != nil {
		return checkoutapp.PlacedOrder{}, err
	}
	return checkoutapp.PlacedOrder{
		Accepted:    result.Success,
		OrderID:     result.OrderID,
		OrderNumber: result.OrderNumber,
		Message:     result.Message,
	}, nil
}
