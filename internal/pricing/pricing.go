package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Line is the pricing view of one cart entry. The engine knows nothing
// about products beyond price and quantity.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int64
}

// Config holds the immutable storefront money constants.
type Config struct {
	Currency              string
	CurrencySymbol        string
	TaxRate               decimal.Decimal
	ShippingCost          decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// ParseConfig builds a Config from the string amounts carried in the
// service configuration.
func ParseConfig(currency, symbol, taxRate, shippingCost, threshold string) (Config, error) {
	tax, err := decimal.NewFromString(taxRate)
	if err != nil {
		return Config{}, fmt.Errorf("parse tax rate %q: %w", taxRate, err)
	}
	ship, err := decimal.NewFromString(shippingCost)
	if err != nil {
		return Config{}, fmt.Errorf("parse shipping cost %q: %w", shippingCost, err)
	}
	free, err := decimal.NewFromString(threshold)
	if err != nil {
		return Config{}, fmt.Errorf("parse free shipping threshold %q: %w", threshold, err)
	}
	return Config{
		Currency:              currency,
		CurrencySymbol:        symbol,
		TaxRate:               tax,
		ShippingCost:          ship,
		FreeShippingThreshold: free,
	}, nil
}

// Breakdown is the derived money view of a line set.
type Breakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Engine computes order money amounts. All methods are pure functions
// of their inputs and the config captured at construction.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Currency() string       { return e.cfg.Currency }
func (e *Engine) CurrencySymbol() string { return e.cfg.CurrencySymbol }

func (e *Engine) Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return sum
}

func (e *Engine) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(e.cfg.TaxRate)
}

// Shipping is free strictly above the threshold; a subtotal exactly at
// the threshold still pays the flat cost.
func (e *Engine) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(e.cfg.FreeShippingThreshold) {
		return decimal.Zero
	}
	return e.cfg.ShippingCost
}

func (e *Engine) Total(lines []Line) decimal.Decimal {
	sub := e.Subtotal(lines)
	return sub.Add(e.Tax(sub)).Add(e.Shipping(sub))
}

func (e *Engine) Quote(lines []Line) Breakdown {
	sub := e.Subtotal(lines)
	tax := e.Tax(sub)
	ship := e.Shipping(sub)
	return Breakdown{
		Subtotal: sub,
		Tax:      tax,
		Shipping: ship,
		Total:    sub.Add(tax).Add(ship),
	}
}

// FormatAmount renders an amount for display, rounded to two places.
// Rounding happens only here, never inside the arithmetic above.
func (e *Engine) FormatAmount(d decimal.Decimal) string {
	return e.cfg.CurrencySymbol + d.StringFixed(2)
}
