package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/domain"
)

// FxProviderClient fetches latest rates from an exchangerate.host style
// endpoint: GET <url>?base=USD&symbols=EUR,GBP,... returning a JSON body
// with a "rates" mapping and, for some providers, a "success" envelope.
type FxProviderClient struct {
	http    *http.Client
	baseURL string
}

type providerResponse struct {
	Success *bool              `json:"success"`
	Base    string             `json:"base"`
	Date    string             `json:"date"`
	Rates   map[string]float64 `json:"rates"`
	Error   json.RawMessage    `json:"error"`
}

// GetLatestRates requests rates for base against the given symbols.
// The provider may omit individual symbols it does not quote; those
// omissions are passed through silently, but a body with no rates
// mapping at all is an error. Any transport, status or payload failure
// is reported as domain.ErrProviderUnavailable.
func (c *FxProviderClient) GetLatestRates(ctx context.Context, base string, symbols []string) (map[string]float64, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse provider URL: %w", err)
	}

	q := u.Query()
	q.Set("base", base)
	q.Set("symbols", strings.Join(symbols, ","))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for base %q: %w", base, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request for base %q failed: %v", domain.ErrProviderUnavailable, base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d for base %q", domain.ErrProviderUnavailable, resp.StatusCode, base)
	}

	var body providerResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response for base %q: %v", domain.ErrProviderUnavailable, base, err)
	}

	// Providers without the envelope (frankfurter and friends) omit
	// "success" entirely; only an explicit false is an error.
	if body.Success != nil && !*body.Success {
		return nil, fmt.Errorf("%w: provider returned error for base %q: %s", domain.ErrProviderUnavailable, base, string(body.Error))
	}

	// A 2xx body without a rates mapping is a broken provider, not an
	// empty result. Treating it as success would poison callers with an
	// identity-only view for a full TTL.
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("%w: response for base %q contains no rates", domain.ErrProviderUnavailable, base)
	}
	return body.Rates, nil
}

func NewFxProviderClient(httpClient *http.Client, baseURL string) *FxProviderClient {
	return &FxProviderClient{http: httpClient, baseURL: baseURL}
}
