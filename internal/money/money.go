// Package money wraps shopspring/decimal for EUR amounts with two
// fraction digits, the minor unit used throughout the wire format.
package money

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromFloat creates decimal from float with rounding to 2 places
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Format renders an amount as a fixed-point string with 2 fraction
// digits. The rendering is stable and round-trippable.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Rate renders a tax rate percentage with 2 fraction digits.
func Rate(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Ptr returns a pointer to d, for optional amount fields.
func Ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// Percentage computes amount * (percentage/100), rounded to 2 places
func Percentage(amount, percentage decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return amount.Mul(percentage).Div(hundred).Round(2)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}
