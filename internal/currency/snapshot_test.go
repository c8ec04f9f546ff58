package currency

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSnapshotRepository struct{ mock.Mock }

func (m *MockSnapshotRepository) InsertSnapshot(ctx context.Context, base string, rates map[string]float64, fetchedAt time.Time) error {
	args := m.Called(ctx, base, rates, fetchedAt)
	return args.Error(0)
}

func (m *MockSnapshotRepository) GetLatestSnapshot(ctx context.Context, base string) (map[string]float64, time.Time, error) {
	args := m.Called(ctx, base)
	rates, _ := args.Get(0).(map[string]float64)
	fetchedAt, _ := args.Get(1).(time.Time)
	return rates, fetchedAt, args.Error(2)
}

func newTestSnapshotService(repo *MockSnapshotRepository, provider *MockRateProvider) *SnapshotService {
	svc := NewSnapshotService(repo, provider, testSettings())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestSnapshotService_FetchesAndPersistsOnColdStart(t *testing.T) {
	repo := new(MockSnapshotRepository)
	provider := new(MockRateProvider)
	svc := newTestSnapshotService(repo, provider)

	fetched := map[string]float64{"EUR": 0.92, "JPY": 150.0}
	provider.On("GetLatestRates", mock.Anything, "USD", []string{"EUR", "GBP", "JPY", "AUD", "MXN"}).
		Return(fetched, nil).Once()
	repo.On("InsertSnapshot", mock.Anything, "USD", fetched, testNow).Return(nil).Once()

	snap := svc.GetRates(context.Background())

	require.False(t, snap.Stale)
	require.Equal(t, "USD", snap.Base)
	require.InDelta(t, 1.0, snap.Rates["USD"], 1e-9)
	require.InDelta(t, 0.92, snap.Rates["EUR"], 1e-9)
	require.Equal(t, 3600, snap.TTLSeconds)
	require.True(t, snap.FetchedAt.Equal(testNow))
	repo.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestSnapshotService_ServesFromMemoryWhileFresh(t *testing.T) {
	repo := new(MockSnapshotRepository)
	provider := new(MockRateProvider)
	svc := newTestSnapshotService(repo, provider)

	provider.On("GetLatestRates", mock.Anything, "USD", mock.Anything).
		Return(map[string]float64{"EUR": 0.92}, nil).Once()
	repo.On("InsertSnapshot", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	first := svc.GetRates(context.Background())
	second := svc.GetRates(context.Background())

	require.False(t, first.Stale)
	require.False(t, second.Stale)
	provider.AssertNumberOfCalls(t, "GetLatestRates", 1)
}

func TestSnapshotService_ProviderFailureFallsBackToStaleMemory(t *testing.T) {
	repo := new(MockSnapshotRepository)
	provider := new(MockRateProvider)
	svc := newTestSnapshotService(repo, provider)

	provider.On("GetLatestRates", mock.Anything, "USD", mock.Anything).
		Return(map[string]float64{"EUR": 0.92}, nil).Once()
	repo.On("InsertSnapshot", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	require.False(t, svc.GetRates(context.Background()).Stale)

	// Push memory past the TTL, then fail the provider.
	svc.fetchedAt = testNow.Add(-2 * time.Hour)
	provider.On("GetLatestRates", mock.Anything, "USD", mock.Anything).
		Return(nil, domain.ErrProviderUnavailable).Once()

	snap := svc.GetRates(context.Background())

	require.True(t, snap.Stale)
	require.InDelta(t, 0.92, snap.Rates["EUR"], 1e-9)
	repo.AssertNotCalled(t, "GetLatestSnapshot", mock.Anything, mock.Anything)
}

func TestSnapshotService_ProviderFailureFallsBackToStore(t *testing.T) {
	repo := new(MockSnapshotRepository)
	provider := new(MockRateProvider)
	svc := newTestSnapshotService(repo, provider)

	storedAt := testNow.Add(-3 * time.Hour)
	provider.On("GetLatestRates", mock.Anything, "USD", mock.Anything).
		Return(nil, domain.ErrProviderUnavailable).Once()
	repo.On("GetLatestSnapshot", mock.Anything, "USD").
		Return(map[string]float64{"GBP": 0.8}, storedAt, nil).Once()

	snap := svc.GetRates(context.Background())

	require.True(t, snap.Stale)
	require.InDelta(t, 0.8, snap.Rates["GBP"], 1e-9)
	require.InDelta(t, 1.0, snap.Rates["USD"], 1e-9)
	require.True(t, snap.FetchedAt.Equal(storedAt))
}

func TestSnapshotService_DegradesToIdentityOnly(t *testing.T) {
	repo := new(MockSnapshotRepository)
	provider := new(MockRateProvider)
	svc := newTestSnapshotService(repo, provider)

	provider.On("GetLatestRates", mock.Anything, "USD", mock.Anything).
		Return(nil, domain.ErrProviderUnavailable).Once()
	repo.On("GetLatestSnapshot", mock.Anything, "USD").
		Return(nil, time.Time{}, domain.ErrNoSnapshot).Once()

	snap := svc.GetRates(context.Background())

	require.True(t, snap.Stale)
	require.Equal(t, map[string]float64{"USD": 1.0}, snap.Rates)
	require.Equal(t, "USD", snap.Base)
}

func TestSnapshotService_PersistFailureStillServesFresh(t *testing.T) {
	repo := new(MockSnapshotRepository)
	provider := new(MockRateProvider)
	svc := newTestSnapshotService(repo, provider)

	provider.On("GetLatestRates", mock.Anything, "USD", mock.Anything).
		Return(map[string]float64{"EUR": 0.92}, nil).Once()
	repo.On("InsertSnapshot", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("db write failed")).Once()

	snap := svc.GetRates(context.Background())

	require.False(t, snap.Stale)
	require.InDelta(t, 0.92, snap.Rates["EUR"], 1e-9)
}
