package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m7one/storefront/internal/order/domain"
)

type fakeSubmitter struct {
	result domain.Result
	err    error
	calls  int
	last   domain.Submission
}

func (f *fakeSubmitter) Submit(_ context.Context, sub domain.Submission) (domain.Result, error) {
	f.calls++
	f.last = sub
	return f.result, f.err
}

type fakePublisher struct {
	events chan PlacedEvent
}

func (f *fakePublisher) OrderPlaced(_ context.Context, e PlacedEvent) error {
	f.events <- e
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validSubmission() domain.Submission {
	return domain.Submission{
		IdempotencyKey: "11111111-2222-3333-4444-555555555555",
		CustomerInfo: domain.CustomerInfo{
			FirstName: "Asha",
			LastName:  "Koul",
			Email:     "asha@example.com",
			Phone:     "9876543210",
		},
		ShippingAddress: domain.ShippingAddress{
			Address: "12 Lal Chowk",
			City:    "Srinagar",
			State:   "Jammu & Kashmir",
			Zip:     "192231",
			Country: "India",
		},
		PaymentMethod: "cod",
		Items: []domain.Item{
			{ProductID: 1, Name: "Keyboard", UnitPrice: decimal.RequireFromString("299"), Quantity: 2},
		},
		Subtotal: decimal.RequireFromString("598"),
		Tax:      decimal.Zero,
		Shipping: decimal.RequireFromString("25"),
		Total:    decimal.RequireFromString("623"),
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	submitter := &fakeSubmitter{result: domain.Result{Success: true}}
	svc := NewService(submitter, nil, quietLogger())

	cases := []struct {
		name   string
		mutate func(*domain.Submission)
	}{
		{"no items", func(s *domain.Submission) { s.Items = nil }},
		{"zero quantity", func(s *domain.Submission) { s.Items[0].Quantity = 0 }},
		{"missing email", func(s *domain.Submission) { s.CustomerInfo.Email = "" }},
		{"missing name", func(s *domain.Submission) { s.CustomerInfo.FirstName = "" }},
		{"missing address", func(s *domain.Submission) { s.ShippingAddress.Address = "" }},
		{"zero total", func(s *domain.Submission) { s.Total = decimal.Zero }},
		{"missing idempotency key", func(s *domain.Submission) { s.IdempotencyKey = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := validSubmission()
			tc.mutate(&sub)
			if _, err := svc.PlaceOrder(context.Background(), sub); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if submitter.calls != 0 {
		t.Fatalf("submitter called %d times for invalid submissions", submitter.calls)
	}
}

func TestPlaceOrderSuccessPublishesEvent(t *testing.T) {
	submitter := &fakeSubmitter{
		result: domain.Result{Success: true, OrderID: "7", OrderNumber: "ORD-20260829-000007"},
	}
	pub := &fakePublisher{events: make(chan PlacedEvent, 1)}
	svc := NewService(submitter, pub, quietLogger())

	result, err := svc.PlaceOrder(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if !result.Success || result.OrderNumber == "" {
		t.Fatalf("unexpected result: %+v", result)
	}

	select {
	case e := <-pub.events:
		if e.OrderNumber != "ORD-20260829-000007" || e.ItemCount != 2 || e.PaymentMethod != "cod" {
			t.Fatalf("unexpected event: %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("order event never published")
	}
}

func TestPlaceOrderRejectionDoesNotPublish(t *testing.T) {
	submitter := &fakeSubmitter{result: domain.Result{Success: false, Message: "out of stock"}}
	pub := &fakePublisher{events: make(chan PlacedEvent, 1)}
	svc := NewService(submitter, pub, quietLogger())

	result, err := svc.PlaceOrder(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if result.Success {
		t.Fatal("expected rejection")
	}

	select {
	case <-pub.events:
		t.Fatal("event published for rejected order")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPlaceOrderTransportError(t *testing.T) {
	submitter := &fakeSubmitter{err: errors.New("connection refused")}
	svc := NewService(submitter, nil, quietLogger())

	if _, err := svc.PlaceOrder(context.Background(), validSubmission()); err == nil {
		t.Fatal("expected transport error to surface")
	}
}
