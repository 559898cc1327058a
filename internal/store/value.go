package store

import "github.com/shopspring/decimal"

// Product values are stored as NUMERIC(12,2).
const (
	ValueScale         = 2
	ValueIntegerDigits = 10
)

var valueLimit = decimal.New(1, ValueIntegerDigits)

// ValueFits reports whether d can be stored without rounding.
func ValueFits(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(ValueScale)) && d.Abs().LessThan(valueLimit)
}

// FormatValue renders d with two decimals. Digits beyond the scale are kept, never rounded away.
func FormatValue(d decimal.Decimal) string {
	if d.Equal(d.Truncate(ValueScale)) {
		return d.StringFixed(ValueScale)
	}
	return d.String()
}
