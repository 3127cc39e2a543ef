package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m7one/storefront/internal/order/domain"
)

type Service struct {
	submitter Submitter
	events    EventPublisher
	log       *slog.Logger
}

// NewService wires the submitter and an optional event publisher
// (nil disables analytics).
func NewService(submitter Submitter, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		submitter: submitter,
		events:    events,
		log:       log,
	}
}

// PlaceOrder validates the submission the way the backend would and
// forwards it. No automatic retry: the caller re-triggers with the
// same idempotency key.
func (s *Service) PlaceOrder(ctx context.Context, sub domain.Submission) (domain.Result, error) {
	if err := validate(sub); err != nil {
		return domain.Result{}, err
	}

	result, err := s.submitter.Submit(ctx, sub)
	if err != nil {
		return domain.Result{}, fmt.Errorf("submit order: %w", err)
	}

	if result.Success {
		s.log.Info("order placed",
			slog.String("order_number", result.OrderNumber),
			slog.String("total", sub.Total.String()),
			slog.Int("items", len(sub.Items)),
		)
		s.publishPlaced(sub, result)
	}
	return result, nil
}

func validate(sub domain.Submission) error {
	if len(sub.Items) == 0 {
		return fmt.Errorf("order has no items")
	}
	for i, it := range sub.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive, got %d", i, it.Quantity)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("item %d: unit price cannot be negative", i)
		}
	}
	if sub.CustomerInfo.Email == "" {
		return fmt.Errorf("customer email is required")
	}
	if sub.CustomerInfo.FirstName == "" || sub.CustomerInfo.LastName == "" {
		return fmt.Errorf("customer first and last name are required")
	}
	if sub.ShippingAddress.Address == "" {
		return fmt.Errorf("shipping address is required")
	}
	if !sub.Total.IsPositive() {
		return fmt.Errorf("order total must be greater than 0")
	}
	if sub.IdempotencyKey == "" {
		return fmt.Errorf("idempotency key is required")
	}
	return nil
}

// publishPlaced sends the analytics event fire-and-forget: a broker
// outage must never fail a placed order.
func (s *Service) publishPlaced(sub domain.Submission, result domain.Result) {
	if s.events == nil {
		return
	}

	itemCount := 0
	for _, it := range sub.Items {
		itemCount += int(it.Quantity)
	}
	event := PlacedEvent{
		OrderNumber:   result.OrderNumber,
		Total:         sub.Total.String(),
		ItemCount:     itemCount,
		PaymentMethod: sub.PaymentMethod,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.events.OrderPlaced(ctx, event); err != nil {
			s.log.Warn("order event publish failed",
				slog.String("order_number", result.OrderNumber),
				slog.Any("err", err),
			)
		}
	}()
}
