package domain

import "strings"

// Currency describes a supported currency and its minor-unit precision.
// DecimalPlaces is the number of minor-unit digits: 2 for cent-based
// currencies, 0 for currencies with no subdivision (JPY).
type Currency struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	DecimalPlaces int    `json:"decimal_places"`
}

var currencyInfo = map[string]Currency{
	"USD": {Code: "USD", Name: "US Dollar", Symbol: "$", DecimalPlaces: 2},
	"EUR": {Code: "EUR", Name: "Euro", Symbol: "€", DecimalPlaces: 2},
	"GBP": {Code: "GBP", Name: "British Pound", Symbol: "£", DecimalPlaces: 2},
	"JPY": {Code: "JPY", Name: "Japanese Yen", Symbol: "¥", DecimalPlaces: 0},
	"AUD": {Code: "AUD", Name: "Australian Dollar", Symbol: "A$", DecimalPlaces: 2},
	"MXN": {Code: "MXN", Name: "Mexican Peso", Symbol: "MX$", DecimalPlaces: 2},
}

// CurrencyInfo returns metadata for a currency code. Unknown codes get a
// bare entry with the conventional 2 decimal places.
func CurrencyInfo(code string) Currency {
	code = strings.ToUpper(code)
	if c, ok := currencyInfo[code]; ok {
		return c
	}
	return Currency{Code: code, DecimalPlaces: 2}
}

// CurrencyDecimals returns the minor-unit decimal places for a code.
func CurrencyDecimals(code string) int {
	return CurrencyInfo(code).DecimalPlaces
}
