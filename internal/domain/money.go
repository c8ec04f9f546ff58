package domain

import "github.com/shopspring/decimal"

// MinorToMajor converts an integer minor-unit amount into a major-unit
// decimal using the currency's decimal places. For a 0-decimal currency
// the minor amount equals the major amount.
func MinorToMajor(amountMinor int64, code string) decimal.Decimal {
	return decimal.New(amountMinor, -int32(CurrencyDecimals(code)))
}

// MajorToMinor converts a major-unit decimal amount into integer minor
// units of the given currency, rounding half up (ties away from zero).
// This rounding rule is relied upon by order totals and must not change.
func MajorToMinor(amount decimal.Decimal, code string) int64 {
	return amount.Shift(int32(CurrencyDecimals(code))).Round(0).IntPart()
}
