package app

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/m7one/storefront/internal/checkout/domain"
)

var (
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe  = regexp.MustCompile(`^\+?[6-9]\d{9}$|^\+?91[6-9]\d{9}$`)
	cardRe   = regexp.MustCompile(`^\d{16}$`)
	cvvRe    = regexp.MustCompile(`^\d{3,4}$`)
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
)

// ValidationError is a user-facing rejection of a form field. It never
// advances the flow and is never fatal.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ShippingForm is the raw step-1 input before validation.
type ShippingForm struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

// PaymentForm is the raw step-2 input. Card fields are only consulted
// when the card method is selected and are dropped after validation.
type PaymentForm struct {
	Method     string `json:"method"`
	CardNumber string `json:"card_number,omitempty"`
	Expiry     string `json:"expiry,omitempty"`
	CVV        string `json:"cvv,omitempty"`
	CardHolder string `json:"card_holder,omitempty"`
}

// DeliveryPolicy is the region the store actually ships to. State must
// contain one of the keywords (case-insensitive) and the pincode must
// be on the allow-list; both rules are deliberate business rules.
type DeliveryPolicy struct {
	RegionName      string
	RegionKeywords  []string
	AllowedPincodes []string
}

func (p DeliveryPolicy) Allows(state, zip string) *ValidationError {
	lower := strings.ToLower(state)
	matched := false
	for _, kw := range p.RegionKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = true
			break
		}
	}
	if !matched {
		return &ValidationError{
			Field:   "state",
			Message: fmt.Sprintf("Sorry, we don't ship to this location. We only deliver to %s.", p.RegionName),
		}
	}

	for _, pin := range p.AllowedPincodes {
		if zip == pin {
			return nil
		}
	}
	return &ValidationError{
		Field: "zip",
		Message: fmt.Sprintf("Sorry, this pincode is out of stock. We only deliver to pincodes %s in %s.",
			strings.Join(p.AllowedPincodes, " and "), p.RegionName),
	}
}

// Validator runs the per-step validation predicates.
type Validator struct {
	policy  DeliveryPolicy
	methods map[domain.PaymentMethod]bool
}

func NewValidator(policy DeliveryPolicy, methods []string) *Validator {
	allowed := make(map[domain.PaymentMethod]bool, len(methods))
	for _, m := range methods {
		allowed[domain.PaymentMethod(m)] = true
	}
	return &Validator{policy: policy, methods: allowed}
}

// ValidateShipping checks the step-1 predicate and returns the
// validated customer and address values ready to merge into the draft.
func (v *Validator) ValidateShipping(f ShippingForm) (domain.CustomerInfo, domain.ShippingAddress, error) {
	trim := strings.TrimSpace
	fields := []struct {
		label string
		value string
	}{
		{"first name", trim(f.FirstName)},
		{"last name", trim(f.LastName)},
		{"email", trim(f.Email)},
		{"phone", trim(f.Phone)},
		{"address", trim(f.Address)},
		{"city", trim(f.City)},
		{"state", trim(f.State)},
		{"zip", trim(f.Zip)},
		{"country", trim(f.Country)},
	}
	for _, fld := range fields {
		if fld.value == "" {
			return domain.CustomerInfo{}, domain.ShippingAddress{}, &ValidationError{
				Field:   fld.label,
				Message: "Please fill in " + fld.label,
			}
		}
	}

	email := trim(f.Email)
	if !emailRe.MatchString(email) {
		return domain.CustomerInfo{}, domain.ShippingAddress{}, &ValidationError{
			Field:   "email",
			Message: "Please enter a valid email address",
		}
	}

	phone := trim(f.Phone)
	if !phoneRe.MatchString(phone) {
		return domain.CustomerInfo{}, domain.ShippingAddress{}, &ValidationError{
			Field:   "phone",
			Message: "Please enter a valid phone number",
		}
	}

	state, zip := trim(f.State), trim(f.Zip)
	if verr := v.policy.Allows(state, zip); verr != nil {
		return domain.CustomerInfo{}, domain.ShippingAddress{}, verr
	}

	customer := domain.CustomerInfo{
		FirstName: trim(f.FirstName),
		LastName:  trim(f.LastName),
		Email:     email,
		Phone:     phone,
	}
	address := domain.ShippingAddress{
		Address: trim(f.Address),
		City:    trim(f.City),
		State:   state,
		Zip:     zip,
		Country: trim(f.Country),
	}
	return customer, address, nil
}

// ValidatePayment checks the step-2 predicate. Card details are
// validated and immediately redacted: only the last four digits and
// the holder name survive.
func (v *Validator) ValidatePayment(f PaymentForm) (domain.PaymentInfo, error) {
	method := domain.PaymentMethod(strings.TrimSpace(f.Method))
	if method == "" {
		return domain.PaymentInfo{}, &ValidationError{
			Field:   "method",
			Message: "Please select a payment method",
		}
	}
	if !v.methods[method] {
		return domain.PaymentInfo{}, &ValidationError{
			Field:   "method",
			Message: fmt.Sprintf("Payment method %q is not available", method),
		}
	}

	info := domain.PaymentInfo{Method: method}
	if method != domain.PaymentCard {
		return info, nil
	}

	number := strings.ReplaceAll(f.CardNumber, " ", "")
	if !cardRe.MatchString(number) {
		return domain.PaymentInfo{}, &ValidationError{
			Field:   "card_number",
			Message: "Please enter a valid card number",
		}
	}
	if !expiryRe.MatchString(strings.TrimSpace(f.Expiry)) {
		return domain.PaymentInfo{}, &ValidationError{
			Field:   "expiry",
			Message: "Please enter a valid expiry date (MM/YY)",
		}
	}
	if !cvvRe.MatchString(strings.TrimSpace(f.CVV)) {
		return domain.PaymentInfo{}, &ValidationError{
			Field:   "cvv",
			Message: "Please enter a valid CVV",
		}
	}
	holder := strings.TrimSpace(f.CardHolder)
	if len(holder) < 2 {
		return domain.PaymentInfo{}, &ValidationError{
			Field:   "card_holder",
			Message: "Please enter the name on the card",
		}
	}

	info.CardLastFour = number[len(number)-4:]
	info.CardHolder = holder
	return info, nil
}
