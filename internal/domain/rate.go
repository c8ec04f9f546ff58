package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a single directional rate record: Rate is units of
// TargetCurrency per one unit of BaseCurrency. Records are append-only;
// a refresh inserts new rows instead of updating old ones, so older rows
// remain available as fallback history.
type ExchangeRate struct {
	ID             int64
	BaseCurrency   string
	TargetCurrency string
	Rate           decimal.Decimal
	Provider       string
	FetchedAt      time.Time
	ExpiresAt      time.Time
}

// ExpiredAt reports whether the record is stale at the given instant.
// A record fetched at T with TTL S is fresh strictly before T+S.
func (r ExchangeRate) ExpiredAt(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Inverted returns the synthesized reverse record (1 / Rate) carrying
// the source record's timestamps. It is computed per query and never
// persisted.
func (r ExchangeRate) Inverted() ExchangeRate {
	return ExchangeRate{
		BaseCurrency:   r.TargetCurrency,
		TargetCurrency: r.BaseCurrency,
		Rate:           decimal.New(1, 0).Div(r.Rate),
		Provider:       r.Provider,
		FetchedAt:      r.FetchedAt,
		ExpiresAt:      r.ExpiresAt,
	}
}

// RatesSnapshot is a point-in-time view of all rates against a single
// base currency, served by the best-effort public rates endpoint.
// Rates always contains the identity entry Base -> 1.0.
type RatesSnapshot struct {
	Base       string             `json:"base"`
	Rates      map[string]float64 `json:"rates"`
	FetchedAt  time.Time          `json:"fetched_at"`
	TTLSeconds int                `json:"ttl_seconds"`
	Stale      bool               `json:"stale"`
}
