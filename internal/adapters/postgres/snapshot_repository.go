package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotRepository persists single-base rates snapshots as jsonb rows.
// This is the durable fallback for the public rates endpoint: the
// in-memory copy is rebuilt from here across process restarts.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func (r *SnapshotRepository) InsertSnapshot(ctx context.Context, base string, rates map[string]float64, fetchedAt time.Time) error {
	payload, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rates snapshot: %w", err)
	}

	const q = `insert into fx_snapshots (base, rates, fetched_at) values ($1, $2::jsonb, $3);`

	if _, err = r.pool.Exec(ctx, q, base, payload, fetchedAt); err != nil {
		return fmt.Errorf("failed to insert rates snapshot for base %q: %w", base, err)
	}
	return nil
}

func (r *SnapshotRepository) GetLatestSnapshot(ctx context.Context, base string) (map[string]float64, time.Time, error) {
	const q = `
        select rates, fetched_at
        from fx_snapshots
        where base = $1
        order by fetched_at desc, id desc
        limit 1;
    `

	var (
		payload   []byte
		fetchedAt time.Time
	)
	if err := r.pool.QueryRow(ctx, q, base).Scan(&payload, &fetchedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, time.Time{}, domain.ErrNoSnapshot
		}
		return nil, time.Time{}, fmt.Errorf("failed to select snapshot for base %q: %w", base, err)
	}

	rates := make(map[string]float64)
	if err := json.Unmarshal(payload, &rates); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to unmarshal snapshot for base %q: %w", base, err)
	}
	return rates, fetchedAt, nil
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}
