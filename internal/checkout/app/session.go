package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m7one/storefront/internal/checkout/domain"
)

var (
	ErrEmptyCart        = errors.New("checkout: cart is empty")
	ErrSessionClosed    = errors.New("checkout: session already closed")
	ErrWrongStep        = errors.New("checkout: operation not allowed at this step")
	ErrStepNotReachable = errors.New("checkout: step not reachable yet")
	ErrUnknownPromo     = errors.New("checkout: unknown promo code")
)

// RejectedError carries the order service's reason for declining a
// submission. The session stays on the review step so the shopper can
// retry.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "checkout: order was not accepted"
	}
	return "checkout: order was not accepted: " + e.Message
}

// Session walks one cart through shipping, payment and review. All
// methods are safe for concurrent use; a session serializes its own
// transitions.
type Session struct {
	id string

	mu           sync.Mutex
	step         domain.Step
	status       domain.Status
	draft        domain.OrderDraft
	baseShipping decimal.Decimal
	promo        *PromoRule
	confirmation *domain.Confirmation

	// idempotencyKey is minted once at session start and reused on
	// every placement attempt, so retries collapse server-side.
	idempotencyKey string

	cart      Cart
	validator *Validator
	promos    *PromoSet
	placer    OrderPlacer
	log       *slog.Logger
}

func newSession(cart Cart, validator *Validator, promos *PromoSet, placer OrderPlacer, log *slog.Logger) (*Session, error) {
	snap, err := cart.Snapshot()
	if err != nil {
		return nil, err
	}
	if len(snap.Items) == 0 {
		return nil, ErrEmptyCart
	}

	s := &Session{
		id:             uuid.NewString(),
		step:           domain.StepShipping,
		status:         domain.StatusActive,
		baseShipping:   snap.Shipping,
		idempotencyKey: uuid.NewString(),
		cart:           cart,
		validator:      validator,
		promos:         promos,
		placer:         placer,
		log:            log,
	}
	s.draft = domain.OrderDraft{
		Items:    snap.Items,
		Subtotal: snap.Subtotal,
		Tax:      snap.Tax,
		Shipping: snap.Shipping,
		Discount: decimal.Zero,
		Total:    snap.Total,
	}
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Step() domain.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Session) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Draft returns a copy of the accumulated order data.
func (s *Session) Draft() domain.OrderDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.draft
	draft.Items = append([]domain.Item(nil), s.draft.Items...)
	return draft
}

func (s *Session) Confirmation() (domain.Confirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.confirmation == nil {
		return domain.Confirmation{}, false
	}
	return *s.confirmation, true
}

// SubmitShipping validates the step-1 form and advances to payment.
// It is only accepted while the session sits on the shipping step.
func (s *Session) SubmitShipping(form ShippingForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.IsTerminal() {
		return ErrSessionClosed
	}
	if s.step != domain.StepShipping {
		return fmt.Errorf("%w: at %s", ErrWrongStep, s.step)
	}

	customer, address, err := s.validator.ValidateShipping(form)
	if err != nil {
		return err
	}

	s.draft.CustomerInfo = customer
	s.draft.ShippingAddress = address
	s.step = domain.StepPayment
	return nil
}

// SubmitPayment validates the step-2 form and advances to review.
func (s *Session) SubmitPayment(form PaymentForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.IsTerminal() {
		return ErrSessionClosed
	}
	if s.step != domain.StepPayment {
		return fmt.Errorf("%w: at %s", ErrWrongStep, s.step)
	}

	info, err := s.validator.ValidatePayment(form)
	if err != nil {
		return err
	}

	s.draft.Payment = info
	s.step = domain.StepReview
	return nil
}

// Retreat moves one step back. Entered data is kept so moving forward
// again does not retype anything.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.IsTerminal() {
		return ErrSessionClosed
	}
	if s.step > domain.StepShipping {
		s.step--
	}
	return nil
}

// JumpTo moves directly to a step. Backward jumps are always allowed;
// forward jumps only to the step immediately after the current one,
// since anything further has unvalidated steps in between.
func (s *Session) JumpTo(target domain.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.IsTerminal() {
		return ErrSessionClosed
	}
	if target < domain.StepShipping || target > domain.StepReview {
		return fmt.Errorf("%w: step %d", ErrStepNotReachable, target)
	}
	if target > s.step+1 {
		return fmt.Errorf("%w: step %d", ErrStepNotReachable, target)
	}
	s.step = target
	return nil
}

// ApplyPromo replaces any active promo and recomputes the totals from
// the base amounts, so promos never stack or compound.
func (s *Session) ApplyPromo(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.IsTerminal() {
		return ErrSessionClosed
	}

	rule, ok := s.promos.Lookup(code)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPromo, code)
	}

	s.promo = &rule
	s.recomputeTotals()
	return nil
}

// RemovePromo clears the active promo and restores the base totals.
func (s *Session) RemovePromo() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.promo = nil
	s.recomputeTotals()
}

func (s *Session) recomputeTotals() {
	shipping := s.baseShipping
	discount := decimal.Zero
	code := ""

	if s.promo != nil {
		code = s.promo.Code
		switch s.promo.Kind {
		case PromoShipping:
			shipping = decimal.Zero
		case PromoPercentage:
			discount = s.draft.Subtotal.Mul(s.promo.Percent).Div(decimal.NewFromInt(100))
		}
	}

	s.draft.Shipping = shipping
	s.draft.Discount = discount
	s.draft.PromoCode = code
	s.draft.Total = s.draft.Subtotal.Add(s.draft.Tax).Add(shipping).Sub(discount)
}

// PlaceOrder submits the draft. It is only accepted on the review
// step, and it re-checks the earlier steps first: if shipping or
// payment data no longer validates the session jumps back to the
// offending step and returns that step's error.
func (s *Session) PlaceOrder(ctx context.Context) (domain.Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.IsTerminal() {
		return domain.Confirmation{}, ErrSessionClosed
	}
	if s.step != domain.StepReview {
		return domain.Confirmation{}, fmt.Errorf("%w: at %s", ErrWrongStep, s.step)
	}

	if _, _, err := s.validator.ValidateShipping(shippingFormFromDraft(s.draft)); err != nil {
		s.step = domain.StepShipping
		return domain.Confirmation{}, err
	}
	if err := s.revalidatePayment(); err != nil {
		s.step = domain.StepPayment
		return domain.Confirmation{}, err
	}

	placed, err := s.placer.Place(ctx, s.draft, s.idempotencyKey)
	if err != nil {
		return domain.Confirmation{}, fmt.Errorf("place order: %w", err)
	}
	if !placed.Accepted {
		return domain.Confirmation{}, &RejectedError{Message: placed.Message}
	}

	s.cart.Clear(ctx)
	s.status = domain.StatusCompleted
	s.confirmation = &domain.Confirmation{
		OrderID:     placed.OrderID,
		OrderNumber: placed.OrderNumber,
		Total:       s.draft.Total,
	}
	s.log.Info("checkout completed",
		slog.String("session_id", s.id),
		slog.String("order_number", placed.OrderNumber),
		slog.String("total", s.draft.Total.StringFixed(2)),
	)
	return *s.confirmation, nil
}

// revalidatePayment re-checks what survived payment validation. Raw
// card data is gone by now, so for card payments the presence of the
// redacted fields stands in for the original form check.
func (s *Session) revalidatePayment() error {
	p := s.draft.Payment
	if p.Method == "" || !s.validator.methods[p.Method] {
		return &ValidationError{Field: "method", Message: "Please select a payment method"}
	}
	if p.Method == domain.PaymentCard && (p.CardLastFour == "" || p.CardHolder == "") {
		return &ValidationError{Field: "card_number", Message: "Please enter a valid card number"}
	}
	return nil
}

func shippingFormFromDraft(d domain.OrderDraft) ShippingForm {
	return ShippingForm{
		FirstName: d.CustomerInfo.FirstName,
		LastName:  d.CustomerInfo.LastName,
		Email:     d.CustomerInfo.Email,
		Phone:     d.CustomerInfo.Phone,
		Address:   d.ShippingAddress.Address,
		City:      d.ShippingAddress.City,
		State:     d.ShippingAddress.State,
		Zip:       d.ShippingAddress.Zip,
		Country:   d.ShippingAddress.Country,
	}
}

// Abandon closes the session without placing an order. The cart is
// left untouched.
func (s *Session) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.IsTerminal() {
		return ErrSessionClosed
	}
	s.status = domain.StatusAbandoned
	return nil
}
