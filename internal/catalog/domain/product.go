package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int64           `json:"stock"`
	Image       string          `json:"image"`
	Featured    bool            `json:"featured"`
	Badge       string          `json:"badge"`
	Active      bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Image string `json:"image"`
}
