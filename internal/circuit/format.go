package circuit

import "github.com/shopspring/decimal"

// FormatNumber renders v with exactly two decimals, rounding half away from zero.
func FormatNumber(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Format renders v with two decimals and the unit suffix of k, e.g. "3.33Ω".
func Format(k Kind, v float64) string {
	return FormatNumber(v) + k.Unit()
}

// Round2 rounds v to two decimals using the same rule as FormatNumber.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
