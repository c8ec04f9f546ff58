package postgres

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// RateRepository persists exchange-rate records in the fx_rates table.
// The table is append-only: refreshes insert new rows, stale rows stay
// behind as fallback history. Rates travel as text to keep the full
// numeric(24,10) precision intact.
type RateRepository struct {
	pool *pgxpool.Pool
}

func (r *RateRepository) InsertRates(ctx context.Context, rates []domain.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}

	const q = `
        insert into fx_rates (base_currency, target_currency, rate, provider, fetched_at, expires_at)
        values ($1, $2, $3::numeric, $4, $5, $6);
    `

	batch := &pgx.Batch{}
	for _, rt := range rates {
		batch.Queue(q, rt.BaseCurrency, rt.TargetCurrency, rt.Rate.String(), rt.Provider, rt.FetchedAt, rt.ExpiresAt)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer func() { _ = br.Close() }()

	for range rates {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert exchange rates: %w", err)
		}
	}
	return nil
}

// GetLatestRate returns the most recently fetched record for the pair
// regardless of expiry, or (nil, nil) when the pair has no history.
func (r *RateRepository) GetLatestRate(ctx context.Context, base string, target string) (*domain.ExchangeRate, error) {
	const q = `
        select id, base_currency, target_currency, rate::text, provider, fetched_at, expires_at
        from fx_rates
        where base_currency = $1 and target_currency = $2
        order by fetched_at desc, id desc
        limit 1;
    `

	var (
		rate    domain.ExchangeRate
		rateStr string
	)
	if err := r.pool.QueryRow(ctx, q, base, target).Scan(
		&rate.ID,
		&rate.BaseCurrency,
		&rate.TargetCurrency,
		&rateStr,
		&rate.Provider,
		&rate.FetchedAt,
		&rate.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to select rate for pair %q/%q: %w", base, target, err)
	}

	value, err := decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored rate %q for pair %q/%q: %w", rateStr, base, target, err)
	}
	rate.Rate = value

	return &rate, nil
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}
