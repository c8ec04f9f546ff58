package currency

import (
	"context"
	"errors"
	"maps"
	"strings"
	"sync"
	"time"

	"storefront/internal/adapters"
	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

// SnapshotService is the cheap best-effort tier behind the public rates
// listing. It holds the last fetched single-base mapping in memory and
// degrades through provider -> stale memory -> persisted snapshot ->
// identity-only response. It never returns an error: the endpoint it
// backs must answer 200 regardless of provider health.
type SnapshotService struct {
	repo     adapters.SnapshotRepository
	provider adapters.RateProvider

	base      string
	supported []string
	ttl       time.Duration

	mu        sync.Mutex
	rates     map[string]float64
	fetchedAt time.Time

	now func() time.Time
}

func NewSnapshotService(repo adapters.SnapshotRepository, provider adapters.RateProvider, st Settings) *SnapshotService {
	symbols := make([]string, 0, len(st.SupportedCurrencies))
	for _, code := range st.SupportedCurrencies {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != strings.ToUpper(st.BaseCurrency) {
			symbols = append(symbols, code)
		}
	}

	return &SnapshotService{
		repo:      repo,
		provider:  provider,
		base:      strings.ToUpper(st.BaseCurrency),
		supported: symbols,
		ttl:       st.TTL,
		now:       time.Now,
	}
}

// GetRates returns the current snapshot, marking Stale when the data did
// not come from a live provider call within the TTL window.
func (s *SnapshotService) GetRates(ctx context.Context) domain.RatesSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if s.rates != nil && now.Sub(s.fetchedAt) < s.ttl {
		return s.buildSnapshot(s.rates, s.fetchedAt, false)
	}

	fresh, err := s.provider.GetLatestRates(ctx, s.base, s.supported)
	if err == nil {
		s.rates = fresh
		s.fetchedAt = now
		if persistErr := s.repo.InsertSnapshot(ctx, s.base, fresh, now); persistErr != nil {
			logrus.WithError(persistErr).Error("Failed to persist rates snapshot")
		}
		return s.buildSnapshot(fresh, now, false)
	}
	logrus.WithError(err).Warn("Provider fetch for rates snapshot failed, falling back")

	// Expired in-memory data beats a DB round trip.
	if s.rates != nil {
		return s.buildSnapshot(s.rates, s.fetchedAt, true)
	}

	stored, fetchedAt, dbErr := s.repo.GetLatestSnapshot(ctx, s.base)
	if dbErr == nil {
		s.rates = stored
		s.fetchedAt = fetchedAt
		return s.buildSnapshot(stored, fetchedAt, true)
	}
	if !errors.Is(dbErr, domain.ErrNoSnapshot) {
		logrus.WithError(dbErr).Error("Failed to load persisted rates snapshot")
	}

	return s.buildSnapshot(nil, now, true)
}

// buildSnapshot always includes the identity entry base -> 1.0.
func (s *SnapshotService) buildSnapshot(rates map[string]float64, fetchedAt time.Time, stale bool) domain.RatesSnapshot {
	all := make(map[string]float64, len(rates)+1)
	maps.Copy(all, rates)
	all[s.base] = 1.0

	return domain.RatesSnapshot{
		Base:       s.base,
		Rates:      all,
		FetchedAt:  fetchedAt,
		TTLSeconds: int(s.ttl / time.Second),
		Stale:      stale,
	}
}
