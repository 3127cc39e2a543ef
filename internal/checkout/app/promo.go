package app

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PromoKind selects how a promo changes the totals.
type PromoKind string

const (
	// PromoPercentage discounts the subtotal by a percentage.
	PromoPercentage PromoKind = "percentage"
	// PromoShipping zeroes the shipping cost.
	PromoShipping PromoKind = "shipping"
)

type PromoRule struct {
	Code    string
	Kind    PromoKind
	Percent decimal.Decimal
}

// PromoSet resolves promo codes case-insensitively. Only one promo is
// active on a session at a time; applying a new one replaces the old.
type PromoSet struct {
	rules map[string]PromoRule
}

func NewPromoSet(rules []PromoRule) *PromoSet {
	byCode := make(map[string]PromoRule, len(rules))
	for _, r := range rules {
		byCode[strings.ToUpper(r.Code)] = r
	}
	return &PromoSet{rules: byCode}
}

func (s *PromoSet) Lookup(code string) (PromoRule, bool) {
	r, ok := s.rules[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}
