package currency

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"storefront/internal/adapters"
	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Settings is the currency configuration the service operates under.
type Settings struct {
	BaseCurrency        string
	SupportedCurrencies []string
	TTL                 time.Duration
	ProviderName        string
}

// Service resolves exchange rates for arbitrary supported pairs and
// converts minor-unit money amounts between currencies.
//
// Resolution for a pair is a per-call decision tree over the append-only
// rate store: direct row, then inverse row (1/rate), then a cross rate
// composed through the configured base currency. A stale or missing pair
// triggers a provider refresh; if the provider fails, the most recent
// stored rate is served even when expired.
type Service struct {
	repo     adapters.RateRepository
	provider adapters.RateProvider
	cache    adapters.RateCache

	base         string
	supported    map[string]struct{}
	supportedLst []string
	ttl          time.Duration
	providerName string

	now func() time.Time
}

func NewService(repo adapters.RateRepository, provider adapters.RateProvider, cache adapters.RateCache, st Settings) *Service {
	supported := make(map[string]struct{}, len(st.SupportedCurrencies))
	for _, code := range st.SupportedCurrencies {
		supported[strings.ToUpper(strings.TrimSpace(code))] = struct{}{}
	}
	supportedLst := slices.Collect(maps.Keys(supported))
	slices.Sort(supportedLst)

	return &Service{
		repo:         repo,
		provider:     provider,
		cache:        cache,
		base:         strings.ToUpper(st.BaseCurrency),
		supported:    supported,
		supportedLst: supportedLst,
		ttl:          st.TTL,
		providerName: st.ProviderName,
		now:          time.Now,
	}
}

// SupportedCurrencies returns the configured currency codes, sorted.
func (s *Service) SupportedCurrencies() []string {
	return slices.Clone(s.supportedLst)
}

// Currencies returns metadata for every supported currency.
func (s *Service) Currencies() []domain.Currency {
	out := make([]domain.Currency, 0, len(s.supportedLst))
	for _, code := range s.supportedLst {
		out = append(out, domain.CurrencyInfo(code))
	}
	return out
}

// GetRate resolves the exchange rate from one currency to another.
// Identity pairs resolve to 1 without touching the store or provider.
// Returns domain.ErrUnsupportedCurrency for codes outside the supported
// set and domain.ErrRateUnavailable when no strategy can produce a rate.
func (s *Service) GetRate(ctx context.Context, from string, to string) (decimal.Decimal, error) {
	from = normalizeCode(from)
	to = normalizeCode(to)

	if from == to {
		return decimal.New(1, 0), nil
	}
	if !s.isSupported(from) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, from)
	}
	if !s.isSupported(to) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, to)
	}

	cached, err := s.lookup(ctx, from, to)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if cached != nil && !cached.ExpiredAt(s.now()) {
		return cached.Rate, nil
	}

	if refreshErr := s.RefreshRates(ctx, true); refreshErr != nil {
		// Only provider trouble justifies serving an expired rate; a
		// store failure propagates.
		if !errors.Is(refreshErr, domain.ErrProviderUnavailable) {
			return decimal.Decimal{}, refreshErr
		}
		if cached != nil {
			logrus.WithFields(logrus.Fields{"from": from, "to": to}).
				Warn("Refresh failed, serving expired exchange rate")
			return cached.Rate, nil
		}
		return decimal.Decimal{}, fmt.Errorf("%w: %s/%s", domain.ErrRateUnavailable, from, to)
	}

	fresh, err := s.lookup(ctx, from, to)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if fresh != nil {
		return fresh.Rate, nil
	}
	return decimal.Decimal{}, fmt.Errorf("%w: %s/%s", domain.ErrRateUnavailable, from, to)
}

// ConvertMinor converts an integer minor-unit amount between currencies,
// rounding half up (ties away from zero) at the target's minor-unit
// precision. Each side uses its own decimal-place count, so a 0-decimal
// amount of 100 means 100 whole units, not 1.00.
func (s *Service) ConvertMinor(ctx context.Context, amountMinor int64, from string, to string) (int64, error) {
	if amountMinor < 0 {
		return 0, domain.ErrNegativeAmount
	}

	from = normalizeCode(from)
	to = normalizeCode(to)
	if from == to {
		return amountMinor, nil
	}
	if !s.isSupported(from) {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, from)
	}
	if !s.isSupported(to) {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, to)
	}

	rate, err := s.GetRate(ctx, from, to)
	if err != nil {
		return 0, err
	}

	major := domain.MinorToMajor(amountMinor, from)
	return domain.MajorToMinor(major.Mul(rate), to), nil
}

// RefreshRates fetches the full supported set against the configured base
// currency and appends the result to the store, identity row included.
// A non-forced refresh is a no-op while the identity marker row is still
// fresh. On provider failure nothing is written and the error propagates.
func (s *Service) RefreshRates(ctx context.Context, force bool) error {
	if !force {
		marker, err := s.repo.GetLatestRate(ctx, s.base, s.base)
		if err != nil {
			return err
		}
		if marker != nil && !marker.ExpiredAt(s.now()) {
			logrus.Debug("Exchange rates still fresh, skipping refresh")
			return nil
		}
	}

	symbols := make([]string, 0, len(s.supportedLst))
	for _, code := range s.supportedLst {
		if code != s.base {
			symbols = append(symbols, code)
		}
	}

	logrus.WithField("base", s.base).Info("Refreshing exchange rates from provider")
	fetched, err := s.provider.GetLatestRates(ctx, s.base, symbols)
	if err != nil {
		logrus.WithError(err).Error("Failed to refresh exchange rates")
		return err
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)

	records := make([]domain.ExchangeRate, 0, len(fetched)+1)
	records = append(records, domain.ExchangeRate{
		BaseCurrency:   s.base,
		TargetCurrency: s.base,
		Rate:           decimal.New(1, 0),
		Provider:       s.providerName,
		FetchedAt:      now,
		ExpiresAt:      expiresAt,
	})
	for code, value := range fetched {
		if _, ok := s.supported[code]; !ok {
			continue
		}
		records = append(records, domain.ExchangeRate{
			BaseCurrency:   s.base,
			TargetCurrency: code,
			Rate:           decimal.NewFromFloat(value),
			Provider:       s.providerName,
			FetchedAt:      now,
			ExpiresAt:      expiresAt,
		})
	}

	if err = s.repo.InsertRates(ctx, records); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Clear()
	}

	logrus.Infof("Stored %d exchange rates for base %s", len(records), s.base)
	return nil
}

// lookup resolves the most recent record for a pair: direct row, inverse
// row, then cross rate through the base currency. The result may be
// expired; freshness is the caller's call. Inverse and cross records are
// synthesized per query and never persisted. A cross rate takes the
// earlier fetched_at and earlier expires_at of its two inputs, so the
// composite is never considered fresher than its weakest leg.
func (s *Service) lookup(ctx context.Context, from string, to string) (*domain.ExchangeRate, error) {
	if rec, ok := s.cacheGet(from, to); ok {
		return rec, nil
	}

	direct, err := s.repo.GetLatestRate(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if direct != nil {
		s.cachePut(*direct)
		return direct, nil
	}

	reverse, err := s.repo.GetLatestRate(ctx, to, from)
	if err != nil {
		return nil, err
	}
	if reverse != nil {
		inverted := reverse.Inverted()
		return &inverted, nil
	}

	if from != s.base && to != s.base {
		baseFrom, err := s.lookup(ctx, s.base, from)
		if err != nil {
			return nil, err
		}
		baseTo, err := s.lookup(ctx, s.base, to)
		if err != nil {
			return nil, err
		}
		if baseFrom != nil && baseTo != nil {
			cross := domain.ExchangeRate{
				BaseCurrency:   from,
				TargetCurrency: to,
				Rate:           baseTo.Rate.Div(baseFrom.Rate),
				Provider:       baseTo.Provider,
				FetchedAt:      earlier(baseFrom.FetchedAt, baseTo.FetchedAt),
				ExpiresAt:      earlier(baseFrom.ExpiresAt, baseTo.ExpiresAt),
			}
			return &cross, nil
		}
	}

	return nil, nil
}

// cacheGet serves only entries that are still fresh at call time.
func (s *Service) cacheGet(from string, to string) (*domain.ExchangeRate, bool) {
	if s.cache == nil {
		return nil, false
	}
	rec, ok := s.cache.Get(from, to)
	if !ok || rec.ExpiredAt(s.now()) {
		return nil, false
	}
	return &rec, true
}

// cachePut memoizes a direct record for its remaining freshness window.
func (s *Service) cachePut(rec domain.ExchangeRate) {
	if s.cache == nil {
		return
	}
	now := s.now()
	if rec.ExpiredAt(now) {
		return
	}
	s.cache.Set(rec, rec.ExpiresAt.Sub(now))
}

func (s *Service) isSupported(code string) bool {
	_, ok := s.supported[code]
	return ok
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
