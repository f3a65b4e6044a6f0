// Package core holds the domain model of the expense tracker: categories,
// expenses, money amounts and the summary record types returned by the query
// layer.
package core

import (
	"github.com/shopspring/decimal"
)

// Money is a fixed-point currency amount stored as integer cents. All
// arithmetic happens on cents; decimals exist only at the parsing and
// formatting boundary.
type Money struct {
	Cents int64
}

var hundred = decimal.NewFromInt(100)

// ParseAmount parses a decimal amount string ("25.50") into Money, rounding
// half-up on the third decimal place. Only strictly positive amounts are
// accepted.
func ParseAmount(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, &ValidationError{Field: "amount", Reason: "must be a decimal number"}
	}
	m := Money{Cents: d.Mul(hundred).Round(0).IntPart()}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	return nil
}

// Decimal returns the amount as an exact decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.Cents).Div(hundred)
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// String formats the amount with two decimal places ("25.50").
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a plain JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
