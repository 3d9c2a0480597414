package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salamyar/backend/internal/domain"
	"github.com/salamyar/backend/internal/infrastructure/metrics"
)

func newConfirmationService(store domain.SelectionStore, fetcher domain.SimilarityFetcher, config ConfirmationServiceConfig) *ConfirmationService {
	return NewConfirmationService(store, fetcher, nil, config)
}

func TestConfirm_EmptyCart(t *testing.T) {
	store := &MockSelectionStore{}
	fetcher := NewMockSimilarityFetcher()
	service := newConfirmationService(store, fetcher, ConfirmationServiceConfig{})

	report, err := service.Confirm(context.Background())

	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Equal(t, int32(0), fetcher.calls.Load(), "no lookups may run for an empty cart")
}

func TestConfirm_EndToEnd(t *testing.T) {
	store := &MockSelectionStore{selections: selections(101, 102)}
	fetcher := NewMockSimilarityFetcher()
	fetcher.results[101] = []domain.SimilarProduct{similar(1, 1, 101), similar(2, 1, 101)}
	fetcher.results[102] = []domain.SimilarProduct{similar(3, 1, 102), similar(4, 2, 102)}

	service := newConfirmationService(store, fetcher, ConfirmationServiceConfig{SimilarLimit: 40})

	report, err := service.Confirm(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalSelectedProducts)
	assert.Equal(t, 4, report.TotalSimilarProductsFound)
	require.Len(t, report.VendorsWithMultipleMatches, 1)

	v1 := report.VendorsWithMultipleMatches[0]
	assert.Equal(t, int64(1), v1.VendorID)
	assert.Equal(t, 2, v1.MatchedProductsCount)
	assert.ElementsMatch(t, []int64{101, 102}, v1.UserSelectedProducts)
	assert.Len(t, v1.SimilarProducts, 3)

	assert.Equal(t, 2, report.ProcessingSummary[102].VendorsFound)
	assert.Equal(t, int32(2), fetcher.calls.Load())
	assert.Equal(t, []int{40, 40}, fetcher.limits)
}

func TestConfirm_FailedLookupIsTolerated(t *testing.T) {
	store := &MockSelectionStore{selections: selections(101, 102, 103)}
	fetcher := NewMockSimilarityFetcher()
	fetcher.results[101] = []domain.SimilarProduct{similar(1, 1, 101)}
	fetcher.errors[102] = errors.New("connection reset by peer")
	fetcher.results[102] = []domain.SimilarProduct{similar(2, 1, 102)}
	fetcher.results[103] = []domain.SimilarProduct{similar(3, 1, 103)}

	service := newConfirmationService(store, fetcher, ConfirmationServiceConfig{})

	report, err := service.Confirm(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalSelectedProducts)
	assert.Equal(t, 2, report.TotalSimilarProductsFound)
	assert.Equal(t, domain.ProcessingSummary{ProductName: "selected 102"}, report.ProcessingSummary[102])

	require.Len(t, report.VendorsWithMultipleMatches, 1)
	assert.Equal(t, []int64{101, 103}, report.VendorsWithMultipleMatches[0].UserSelectedProducts)
}

func TestConfirm_AllLookupsFail(t *testing.T) {
	store := &MockSelectionStore{selections: selections(1, 2)}
	fetcher := NewMockSimilarityFetcher()
	fetcher.errors[1] = domain.ErrUpstream
	fetcher.errors[2] = domain.ErrUpstream

	service := newConfirmationService(store, fetcher, ConfirmationServiceConfig{})

	report, err := service.Confirm(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalSelectedProducts)
	assert.Zero(t, report.TotalSimilarProductsFound)
	assert.Empty(t, report.VendorsWithMultipleMatches)
	assert.Len(t, report.ProcessingSummary, 2)
}

func TestConfirm_BoundedConcurrency(t *testing.T) {
	store := &MockSelectionStore{selections: selections(1, 2, 3, 4, 5, 6, 7, 8)}
	fetcher := NewMockSimilarityFetcher()
	fetcher.delay = 20 * time.Millisecond

	service := newConfirmationService(store, fetcher, ConfirmationServiceConfig{MaxConcurrency: 2})

	report, err := service.Confirm(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, report.TotalSelectedProducts)
	assert.Equal(t, int32(8), fetcher.calls.Load())
	assert.LessOrEqual(t, fetcher.peak.Load(), int32(2))
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5, 6, 7, 8}, fetcher.requested)
}

func TestConfirm_TimeoutAbortsWithoutReport(t *testing.T) {
	store := &MockSelectionStore{selections: selections(1, 2)}
	fetcher := NewMockSimilarityFetcher()
	fetcher.block = true

	service := newConfirmationService(store, fetcher, ConfirmationServiceConfig{Timeout: 50 * time.Millisecond})

	start := time.Now()
	report, err := service.Confirm(context.Background())

	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestConfirm_CallerCancellation(t *testing.T) {
	store := &MockSelectionStore{selections: selections(1, 2)}
	fetcher := NewMockSimilarityFetcher()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	service := newConfirmationService(store, fetcher, ConfirmationServiceConfig{})
	report, err := service.Confirm(ctx)

	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), fetcher.calls.Load())
}

func TestConfirm_AggregationContractBreach(t *testing.T) {
	store := &MockSelectionStore{selections: selections(1, 2)}
	fetcher := NewMockSimilarityFetcher()
	broken := similar(10, 7, 1)
	broken.VendorID = 0
	fetcher.results[1] = []domain.SimilarProduct{broken}

	service := newConfirmationService(store, fetcher, ConfirmationServiceConfig{})
	report, err := service.Confirm(context.Background())

	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrInternalAggregation)
}

func TestConfirm_StoreError(t *testing.T) {
	store := &MockSelectionStore{err: errors.New("store unavailable")}
	fetcher := NewMockSimilarityFetcher()

	service := newConfirmationService(store, fetcher, ConfirmationServiceConfig{})
	_, err := service.Confirm(context.Background())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmptyCart)
	assert.Equal(t, int32(0), fetcher.calls.Load())
}

func TestConfirm_RecordsMetrics(t *testing.T) {
	store := &MockSelectionStore{selections: selections(1, 2)}
	fetcher := NewMockSimilarityFetcher()
	fetcher.results[1] = []domain.SimilarProduct{similar(10, 7, 1)}
	fetcher.errors[2] = errors.New("timeout")

	reg := prometheus.NewRegistry()
	service := NewConfirmationService(store, fetcher, metrics.NewConfirmationMetrics(reg), ConfirmationServiceConfig{})

	_, err := service.Confirm(context.Background())
	require.NoError(t, err)

	expected := `
# HELP similar_fetch_total More-like-this lookups by outcome.
# TYPE similar_fetch_total counter
similar_fetch_total{outcome="failure"} 1
similar_fetch_total{outcome="success"} 1
# HELP confirmation_total Cart confirmations by result.
# TYPE confirmation_total counter
confirmation_total{result="ok"} 1
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected), "similar_fetch_total", "confirmation_total")
	assert.NoError(t, err)
}

func TestNewConfirmationService_Defaults(t *testing.T) {
	service := NewConfirmationService(&MockSelectionStore{}, NewMockSimilarityFetcher(), nil, ConfirmationServiceConfig{})

	assert.Equal(t, defaultMaxConcurrency, service.maxConcurrency)
	assert.Equal(t, defaultSimilarLimit, service.similarLimit)
	assert.Zero(t, service.timeout)
}
