package model

import "github.com/shopspring/decimal"

// Transaction is a single recorded payment. Transactions are never mutated.
type Transaction struct {
	ID             string          `json:"id"`
	Date           Date            `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	Category       Category        `json:"category"`
	SubCategory    string          `json:"sub_category,omitempty"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
}

// CategoryState tracks spend against a limit for one category.
// Spent always equals the sum of Transactions[i].Amount.
type CategoryState struct {
	Category     Category        `json:"category"`
	Spent        decimal.Decimal `json:"spent"`
	Limit        decimal.Decimal `json:"limit"`
	Transactions []Transaction   `json:"transactions"` // newest first
}

// CategoryStates holds exactly one CategoryState per category.
type CategoryStates struct {
	Living    CategoryState `json:"living"`
	Transport CategoryState `json:"transport"`
	Finance   CategoryState `json:"finance"`
	Emergency CategoryState `json:"emergency"`
}

// Get returns the state for c. ok is false if c is not a valid category.
func (s CategoryStates) Get(c Category) (cs CategoryState, ok bool) {
	switch c {
	case Living:
		return s.Living, true
	case Transport:
		return s.Transport, true
	case Finance:
		return s.Finance, true
	case Emergency:
		return s.Emergency, true
	}
	return CategoryState{}, false
}

// With returns a copy of s with the state for c replaced.
func (s CategoryStates) With(c Category, cs CategoryState) CategoryStates {
	switch c {
	case Living:
		s.Living = cs
	case Transport:
		s.Transport = cs
	case Finance:
		s.Finance = cs
	case Emergency:
		s.Emergency = cs
	}
	return s
}

// All returns the category states in declaration order.
func (s CategoryStates) All() []CategoryState {
	return []CategoryState{s.Living, s.Transport, s.Finance, s.Emergency}
}

// LedgerState is a full snapshot of the budget. TotalBalance is not clamped
// and may go negative.
type LedgerState struct {
	OwnerName     string          `json:"owner_name"`
	TotalBalance  decimal.Decimal `json:"total_balance"`
	Categories    CategoryStates  `json:"categories"`
	EmergencyFund decimal.Decimal `json:"emergency_fund"`
	SavingsGoal   decimal.Decimal `json:"savings_goal"`
}

// Category is shorthand for s.Categories.Get(c).
func (s LedgerState) Category(c Category) (CategoryState, bool) {
	return s.Categories.Get(c)
}
