package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// CurrencyService is the precise per-pair tier: it can fail, and its
// failures map onto distinct status codes.
type CurrencyService interface {
	SupportedCurrencies() []string
	Currencies() []domain.Currency
	GetRate(ctx context.Context, from string, to string) (decimal.Decimal, error)
	ConvertMinor(ctx context.Context, amountMinor int64, from string, to string) (int64, error)
	RefreshRates(ctx context.Context, force bool) error
}

// SnapshotProvider is the best-effort tier: always answers.
type SnapshotProvider interface {
	GetRates(ctx context.Context) domain.RatesSnapshot
}

type Handler struct {
	service   CurrencyService
	snapshots SnapshotProvider
}

func NewCurrencyHandler(service CurrencyService, snapshots SnapshotProvider) *Handler {
	return &Handler{service: service, snapshots: snapshots}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
