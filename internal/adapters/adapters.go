package adapters

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// RateProvider calls the external FX-rate API. Implementations make a
// single attempt; retry policy belongs to the caller.
type RateProvider interface {
	GetLatestRates(ctx context.Context, base string, symbols []string) (map[string]float64, error)
}

// RateRepository stores directional exchange-rate records. Inserts only;
// "current" means the most recently fetched row for a pair.
type RateRepository interface {
	InsertRates(ctx context.Context, rates []domain.ExchangeRate) error
	GetLatestRate(ctx context.Context, base string, target string) (*domain.ExchangeRate, error)
}

// SnapshotRepository persists single-base rates snapshots for the
// best-effort public rates endpoint.
type SnapshotRepository interface {
	InsertSnapshot(ctx context.Context, base string, rates map[string]float64, fetchedAt time.Time) error
	GetLatestSnapshot(ctx context.Context, base string) (map[string]float64, time.Time, error)
}

// RateCache memoizes freshly resolved direct rate records in memory.
// Entries expire on their own; Clear drops everything after a forced
// refresh.
type RateCache interface {
	Get(base string, target string) (domain.ExchangeRate, bool)
	Set(rate domain.ExchangeRate, ttl time.Duration)
	Clear()
}
