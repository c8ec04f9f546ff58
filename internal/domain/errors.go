package domain

import "errors"

var (
	// ErrUnsupportedCurrency marks a currency code outside the configured
	// supported set. Caller input error, never retried.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrProviderUnavailable marks a transient failure talking to the
	// external rate provider (network, non-2xx, bad payload).
	ErrProviderUnavailable = errors.New("rate provider unavailable")

	// ErrRateUnavailable means no direct, inverse, cross or cached rate
	// could be resolved for the requested pair.
	ErrRateUnavailable = errors.New("exchange rate unavailable")

	// ErrNegativeAmount rejects negative minor-unit amounts on conversion.
	ErrNegativeAmount = errors.New("amount must be non-negative")

	// ErrNoSnapshot means no persisted rates snapshot exists yet.
	ErrNoSnapshot = errors.New("no rates snapshot")
)
