package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user input into a decimal amount.
//
// It accepts an optional leading "$", comma thousands grouping in front of a
// dot decimal point, and a single comma decimal separator. A lone comma
// followed by exactly three digits is ambiguous and rejected.
// Sign and magnitude are not checked here; the ledger rejects
// non-positive payments.
//
//	ParseAmount("12.34")     -> 12.34
//	ParseAmount("$12,34")    -> 12.34
//	ParseAmount("$2,450.00") -> 2450.00
//	ParseAmount("1,234")     -> ErrInvalidAmount
//	ParseAmount("abc")       -> ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	switch commas := strings.Count(s, ","); {
	case commas == 0:
	case strings.Contains(s, "."):
		whole, _, _ := strings.Cut(s, ".")
		if strings.Count(whole, ",") != commas || !grouped(whole) {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		s = strings.ReplaceAll(s, ",", "")
	case commas == 1:
		if _, frac, _ := strings.Cut(s, ","); len(frac) == 3 {
			return decimal.Zero, fmt.Errorf("%w: ambiguous separator in %q", ErrInvalidAmount, s)
		}
		s = strings.Replace(s, ",", ".", 1)
	default:
		if !grouped(s) {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// grouped reports whether whole uses well-formed thousands grouping:
// a leading group of one to three characters, then groups of exactly three.
func grouped(whole string) bool {
	whole = strings.TrimLeft(whole, "+-")
	groups := strings.Split(whole, ",")
	if n := len(groups[0]); n < 1 || n > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

// ProgressPercent returns spent / limit * 100 without clamping.
// A non-positive limit yields zero.
func ProgressPercent(spent, limit decimal.Decimal) decimal.Decimal {
	if !limit.IsPositive() {
		return decimal.Zero
	}
	return spent.Div(limit).Mul(decimal.NewFromInt(100))
}
