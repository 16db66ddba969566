// Package model defines the domain types of the fintrack budget ledger.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Category is one of the four fixed budget buckets.
type Category int

const (
	Living Category = iota
	Transport
	Finance
	Emergency
)

// AllCategories lists every category in declaration order. Aggregates and
// listings iterate this array so their output order is stable.
var AllCategories = [...]Category{Living, Transport, Finance, Emergency}

var (
	// ErrUnknownCategory is returned for names or values outside the enumeration.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidAmount is returned for non-numeric, zero, or negative amounts.
	ErrInvalidAmount = errors.New("invalid amount")
)

var categoryNames = [...]string{"Living", "Transport", "Finance", "Emergency"}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	return c >= Living && c <= Emergency
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory resolves a category name, ignoring case and surrounding space.
func ParseCategory(s string) (Category, error) {
	name := strings.TrimSpace(s)
	for i, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
