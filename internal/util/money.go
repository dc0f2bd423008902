package util

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseAmount converts a dollar amount string (e.g. "12.34") to cents.
// Decimal arithmetic avoids the lost-cent float rounding a naive
// ParseFloat conversion suffers from.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.Exponent() < -2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	return d.Mul(hundred).IntPart(), nil
}

// FormatCents renders cents as a dollar string with two decimal places.
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(hundred).StringFixed(2)
}
