package domain

import "github.com/shopspring/decimal"

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

type Item struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"product_name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

// Submission is the normalized order payload handed to the backend.
// IdempotencyKey is generated once per checkout draft and reused on
// retries, so a duplicate submission can be collapsed server-side.
type Submission struct {
	IdempotencyKey  string
	CustomerInfo    CustomerInfo
	ShippingAddress ShippingAddress
	PaymentMethod   string
	Items           []Item
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Shipping        decimal.Decimal
	Total           decimal.Decimal
}

// Result is the submission outcome. Success carries the generated
// order identifiers; failure carries a user-facing message.
type Result struct {
	Success     bool   `json:"success"`
	OrderID     string `json:"order_id,omitempty"`
	OrderNumber string `json:"order_number,omitempty"`
	Message     string `json:"message,omitempty"`
}
