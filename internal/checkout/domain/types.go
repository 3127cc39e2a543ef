package domain

import "github.com/shopspring/decimal"

// Step is the checkout position. Forward movement is gated on
// validation; jumping ahead of validated progress is not allowed.
type Step int

const (
	StepShipping Step = 1
	StepPayment  Step = 2
	StepReview   Step = 3
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusAbandoned Status = "ABANDONED"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

type CustomerInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type ShippingAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentCard   PaymentMethod = "card"
	PaymentPaypal PaymentMethod = "paypal"
	PaymentApple  PaymentMethod = "apple"
)

// PaymentInfo is what survives payment validation. Card data is
// reduced to its last four digits and the holder name before it gets
// here; the full number, expiry and CVV are never stored.
type PaymentInfo struct {
	Method       PaymentMethod `json:"method"`
	CardLastFour string        `json:"card_last_four,omitempty"`
	CardHolder   string        `json:"card_holder,omitempty"`
}

type Item struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

// OrderDraft accumulates checkout data. Fields for a step are
// populated only after that step's validation passed.
type OrderDraft struct {
	CustomerInfo    CustomerInfo    `json:"customer_info"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Payment         PaymentInfo     `json:"payment"`
	Items           []Item          `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Shipping        decimal.Decimal `json:"shipping"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	PromoCode       string          `json:"promo_code,omitempty"`
}

// Confirmation is shown to the shopper after a successful placement.
type Confirmation struct {
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
}
