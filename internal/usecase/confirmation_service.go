package usecase

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/salamyar/backend/internal/domain"
	"github.com/salamyar/backend/internal/infrastructure/metrics"
)

// Confirmation results recorded in metrics
const (
	resultOK        = "ok"
	resultEmptyCart = "empty_cart"
	resultAborted   = "aborted"
	resultError     = "error"
)

// Defaults applied when the configuration leaves a value unset
const (
	defaultMaxConcurrency = 5
	defaultSimilarLimit   = 100
)

// ConfirmationServiceConfig holds configuration for the confirmation service
type ConfirmationServiceConfig struct {
	MaxConcurrency     int
	SimilarLimit       int
	Timeout            time.Duration
	EnableDebugLogging bool
}

// ConfirmationService fetches similar products for every selection and
// reports the vendors that overlap several selections.
type ConfirmationService struct {
	store          domain.SelectionStore
	fetcher        domain.SimilarityFetcher
	aggregator     *VendorAggregator
	metrics        *metrics.ConfirmationMetrics
	maxConcurrency int
	similarLimit   int
	timeout        time.Duration
}

// NewConfirmationService creates a new confirmation service with dependencies.
// recorder may be nil.
func NewConfirmationService(
	store domain.SelectionStore,
	fetcher domain.SimilarityFetcher,
	recorder *metrics.ConfirmationMetrics,
	config ConfirmationServiceConfig,
) *ConfirmationService {
	maxConcurrency := config.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}

	similarLimit := config.SimilarLimit
	if similarLimit <= 0 {
		similarLimit = defaultSimilarLimit
	}

	return &ConfirmationService{
		store:          store,
		fetcher:        fetcher,
		aggregator:     NewVendorAggregator(config.EnableDebugLogging),
		metrics:        recorder,
		maxConcurrency: maxConcurrency,
		similarLimit:   similarLimit,
		timeout:        config.Timeout,
	}
}

// Confirm builds the vendor overlap report for the current selections.
// Flow: list selections -> fetch similar products (bounded fan-out) -> aggregate -> report
//
// A failed lookup only zeroes that selection's contribution. Cancellation or
// timeout of ctx aborts the whole confirmation and no report is returned.
func (s *ConfirmationService) Confirm(ctx context.Context) (*domain.ConfirmationReport, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration(time.Since(start)) }()

	selections, err := s.store.ListCurrent(ctx)
	if err != nil {
		s.metrics.IncConfirmation(resultError)
		return nil, fmt.Errorf("listing selections: %w", err)
	}

	if len(selections) == 0 {
		s.metrics.IncConfirmation(resultEmptyCart)
		return nil, domain.ErrEmptyCart
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	results, err := s.fetchAll(ctx, selections)
	if err != nil {
		s.metrics.IncConfirmation(resultAborted)
		log.WithError(err).WithField("selections", len(selections)).Warn("[CONFIRM] Confirmation aborted")
		return nil, fmt.Errorf("confirmation aborted: %w", err)
	}

	matches, err := s.aggregator.Aggregate(selections, results)
	if err != nil {
		s.metrics.IncConfirmation(resultError)
		log.WithError(err).Error("[CONFIRM] Aggregation failed")
		return nil, err
	}

	report := BuildReport(selections, results, matches)

	s.metrics.IncConfirmation(resultOK)
	s.metrics.ObserveVendorMatches(len(matches))
	log.WithFields(log.Fields{
		"selections":     report.TotalSelectedProducts,
		"similar_found":  report.TotalSimilarProductsFound,
		"vendor_matches": len(matches),
		"duration_ms":    time.Since(start).Milliseconds(),
	}).Info("[CONFIRM] Confirmation completed")

	return report, nil
}

// fetchAll looks up similar products for every selection with at most
// maxConcurrency lookups in flight. Each goroutine writes only its own slot.
// Failed lookups are logged and leave no entry in the returned map; the only
// error returned is ctx's.
func (s *ConfirmationService) fetchAll(
	ctx context.Context,
	selections []domain.Selection,
) (map[int64][]domain.SimilarProduct, error) {
	slots := make([][]domain.SimilarProduct, len(selections))
	fetched := make([]bool, len(selections))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)

	for i := range selections {
		i := i
		selection := &selections[i]
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			products, err := s.fetcher.FetchSimilar(ctx, selection, s.similarLimit)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				s.metrics.IncFetch(metrics.OutcomeFailure)
				log.WithFields(log.Fields{
					"product_id": selection.ProductID,
					"error":      err,
				}).Warn("[CONFIRM] Similar products lookup failed, continuing without it")
				return nil
			}

			s.metrics.IncFetch(metrics.OutcomeSuccess)
			slots[i] = products
			fetched[i] = true
			return nil
		})
	}

	// goroutines never return an error
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make(map[int64][]domain.SimilarProduct, len(selections))
	for i, selection := range selections {
		if fetched[i] {
			results[selection.ProductID] = slots[i]
		}
	}

	return results, nil
}
