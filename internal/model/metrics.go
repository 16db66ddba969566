package model

import "github.com/shopspring/decimal"

// CategoryTotal is one row of the spend-by-category aggregate.
type CategoryTotal struct {
	Category Category        `json:"name"`
	Value    decimal.Decimal `json:"value"`
}

// Share is a category's portion of total spend, used for distribution charts.
type Share struct {
	Category Category        `json:"category"`
	Spent    decimal.Decimal `json:"spent"`
	Percent  float64         `json:"percent"` // 0-100 of total spent
}

// Totals holds ledger-wide aggregates across all categories.
type Totals struct {
	Spent        decimal.Decimal `json:"spent"`
	Limit        decimal.Decimal `json:"limit"`
	Remaining    decimal.Decimal `json:"remaining"`
	Transactions int             `json:"transactions"`
	OverLimit    int             `json:"over_limit"` // categories at or above 100%
	NearLimit    int             `json:"near_limit"` // categories in [80%, 100%)
}
