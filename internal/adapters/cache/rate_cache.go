package cache

import (
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/dgraph-io/ristretto"
)

// RistrettoRateCache memoizes freshly resolved direct rate records.
// Entries carry a TTL clamped to the record's remaining freshness, so a
// hit is always at least as fresh as re-reading the store would be.
type RistrettoRateCache struct {
	cache *ristretto.Cache
}

func NewRateCache(maxItems int64) (*RistrettoRateCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create rate cache failed: %w", err)
	}
	return &RistrettoRateCache{cache: c}, nil
}

func (c *RistrettoRateCache) Get(base string, target string) (domain.ExchangeRate, bool) {
	if v, ok := c.cache.Get(toKey(base, target)); ok {
		rate, ok := v.(domain.ExchangeRate)
		return rate, ok
	}
	return domain.ExchangeRate{}, false
}

func (c *RistrettoRateCache) Set(rate domain.ExchangeRate, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.cache.SetWithTTL(toKey(rate.BaseCurrency, rate.TargetCurrency), rate, 1, ttl)
}

func (c *RistrettoRateCache) Clear() { c.cache.Clear() }

func (c *RistrettoRateCache) Close() { c.cache.Close() }

func toKey(base, target string) string { return base + ":" + target }
