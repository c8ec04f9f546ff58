package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCurrencyService struct{ mock.Mock }

func (m *MockCurrencyService) SupportedCurrencies() []string {
	args := m.Called()
	codes, _ := args.Get(0).([]string)
	return codes
}

func (m *MockCurrencyService) Currencies() []domain.Currency {
	args := m.Called()
	currencies, _ := args.Get(0).([]domain.Currency)
	return currencies
}

func (m *MockCurrencyService) GetRate(ctx context.Context, from string, to string) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	rate, _ := args.Get(0).(decimal.Decimal)
	return rate, args.Error(1)
}

func (m *MockCurrencyService) ConvertMinor(ctx context.Context, amountMinor int64, from string, to string) (int64, error) {
	args := m.Called(ctx, amountMinor, from, to)
	amount, _ := args.Get(0).(int64)
	return amount, args.Error(1)
}

func (m *MockCurrencyService) RefreshRates(ctx context.Context, force bool) error {
	args := m.Called(ctx, force)
	return args.Error(0)
}

type MockSnapshots struct{ mock.Mock }

func (m *MockSnapshots) GetRates(ctx context.Context) domain.RatesSnapshot {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(domain.RatesSnapshot)
	return snap
}

type errorJSON struct {
	Error string `json:"error"`
}

func newTestRouter(service *MockCurrencyService, snapshots *MockSnapshots) *chi.Mux {
	h := NewCurrencyHandler(service, snapshots)
	router := chi.NewRouter()
	router.Get("/api/v1/currencies", h.GetCurrencies)
	router.Get("/api/v1/currencies/codes", h.GetSupportedCodes)
	router.Get("/api/v1/rates", h.GetRatesSnapshot)
	router.Post("/api/v1/rates/refresh", h.ForceRefresh)
	router.Get("/api/v1/rates/{from:[A-Za-z]{3}}/{to:[A-Za-z]{3}}", h.GetRate)
	router.Get("/api/v1/convert", h.Convert)
	return router
}

// --- GetRate ---

func TestHandler_GetRate_Success(t *testing.T) {
	service := new(MockCurrencyService)
	router := newTestRouter(service, new(MockSnapshots))

	service.On("GetRate", mock.Anything, "USD", "EUR").
		Return(decimal.RequireFromString("0.9234567890"), nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rates/usd/eur", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp GetRateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "USD", resp.From)
	require.Equal(t, "EUR", resp.To)
	require.True(t, resp.Rate.Equal(decimal.RequireFromString("0.9234567890")))
	service.AssertExpectations(t)
}

func TestHandler_GetRate_UnsupportedCurrency(t *testing.T) {
	service := new(MockCurrencyService)
	router := newTestRouter(service, new(MockSnapshots))

	service.On("GetRate", mock.Anything, "USD", "ZZZ").
		Return(decimal.Decimal{}, domain.ErrUnsupportedCurrency).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rates/USD/ZZZ", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GetRate_Unavailable(t *testing.T) {
	service := new(MockCurrencyService)
	router := newTestRouter(service, new(MockSnapshots))

	service.On("GetRate", mock.Anything, "EUR", "GBP").
		Return(decimal.Decimal{}, domain.ErrRateUnavailable).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rates/EUR/GBP", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp errorJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "exchange rate temporarily unavailable", resp.Error)
}

func TestHandler_GetRate_InternalError(t *testing.T) {
	service := new(MockCurrencyService)
	router := newTestRouter(service, new(MockSnapshots))

	service.On("GetRate", mock.Anything, "USD", "EUR").
		Return(decimal.Decimal{}, errors.New("db down")).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rates/USD/EUR", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

// --- Convert ---

func TestHandler_Convert_Success(t *testing.T) {
	service := new(MockCurrencyService)
	router := newTestRouter(service, new(MockSnapshots))

	service.On("ConvertMinor", mock.Anything, int64(10000), "USD", "EUR").
		Return(int64(8550), nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/convert?amount_minor=10000&from=usd&to=eur", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(8550), resp.AmountMinor)
	require.Equal(t, "EUR", resp.Currency)
}

func TestHandler_Convert_BadAmount(t *testing.T) {
	service := new(MockCurrencyService)
	router := newTestRouter(service, new(MockSnapshots))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/convert?amount_minor=ten&from=USD&to=EUR", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "ConvertMinor", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Convert_MissingCurrencies(t *testing.T) {
	service := new(MockCurrencyService)
	router := newTestRouter(service, new(MockSnapshots))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/convert?amount_minor=100", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Convert_NegativeAmountRejected(t *testing.T) {
	service := new(MockCurrencyService)
	router := newTestRouter(service, new(MockSnapshots))

	service.On("ConvertMinor", mock.Anything, int64(-5), "USD", "EUR").
		Return(int64(0), domain.ErrNegativeAmount).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/convert?amount_minor=-5&from=USD&to=EUR", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Convert_RateUnavailable(t *testing.T) {
	service := new(MockCurrencyService)
	router := newTestRouter(service, new(MockSnapshots))

	service.On("ConvertMinor", mock.Anything, int64(100), "EUR", "MXN").
		Return(int64(0), domain.ErrRateUnavailable).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/convert?amount_minor=100&from=EUR&to=MXN", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// --- Snapshot ---

func TestHandler_GetRatesSnapshot_AlwaysOK(t *testing.T) {
	snapshots := new(MockSnapshots)
	router := newTestRouter(new(MockCurrencyService), snapshots)

	snapshots.On("GetRates", mock.Anything).Return(domain.RatesSnapshot{
		Base:       "USD",
		Rates:      map[string]float64{"USD": 1.0},
		FetchedAt:  time.Date(2025, 10, 3, 12, 0, 0, 0, time.UTC),
		TTLSeconds: 3600,
		Stale:      true,
	}).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.RatesSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Stale)
	require.Equal(t, "USD", resp.Base)
	require.InDelta(t, 1.0, resp.Rates["USD"], 1e-9)
}

// --- Currencies ---

func TestHandler_GetSupportedCodes(t *testing.T) {
	service := new(MockCurrencyService)
	router := newTestRouter(service, new(MockSnapshots))

	service.On("SupportedCurrencies").Return([]string{"EUR", "USD"}).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/currencies/codes", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp GetSupportedCodesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{"EUR", "USD"}, resp.Codes)
}

func TestHandler_GetCurrencies_IncludesDecimalPlaces(t *testing.T) {
	service := new(MockCurrencyService)
	router := newTestRouter(service, new(MockSnapshots))

	service.On("Currencies").Return([]domain.Currency{
		{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", DecimalPlaces: 0},
		{Code: "USD", Name: "US Dollar", Symbol: "$", DecimalPlaces: 2},
	}).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp GetCurrenciesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Currencies, 2)
	require.Equal(t, 0, resp.Currencies[0].DecimalPlaces)
}

// --- ForceRefresh ---

func TestHandler_ForceRefresh_Success(t *testing.T) {
	service := new(MockCurrencyService)
	router := newTestRouter(service, new(MockSnapshots))

	service.On("RefreshRates", mock.Anything, true).Return(nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/rates/refresh", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	service.AssertExpectations(t)
}

func TestHandler_ForceRefresh_ProviderDown(t *testing.T) {
	service := new(MockCurrencyService)
	router := newTestRouter(service, new(MockSnapshots))

	service.On("RefreshRates", mock.Anything, true).Return(domain.ErrProviderUnavailable).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/rates/refresh", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
