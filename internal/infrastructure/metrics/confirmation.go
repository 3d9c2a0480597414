package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ConfirmationMetrics records cart confirmation activity.
type ConfirmationMetrics struct {
	fetches       *prometheus.CounterVec
	confirmations *prometheus.CounterVec
	duration      prometheus.Histogram
	vendorMatches prometheus.Histogram
}

// NewConfirmationMetrics registers the confirmation metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewConfirmationMetrics(reg prometheus.Registerer) *ConfirmationMetrics {
	if reg == nil {
		return &ConfirmationMetrics{}
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "similar_fetch_total",
		Help: "More-like-this lookups by outcome.",
	}, []string{"outcome"})
	confirmations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "confirmation_total",
		Help: "Cart confirmations by result.",
	}, []string{"result"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "confirmation_duration_seconds",
		Help:    "Duration of cart confirmations in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	vendorMatches := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "confirmation_vendor_matches",
		Help:    "Vendors matching two or more selections per confirmation.",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
	})
	reg.MustRegister(fetches, confirmations, duration, vendorMatches)
	return &ConfirmationMetrics{
		fetches:       fetches,
		confirmations: confirmations,
		duration:      duration,
		vendorMatches: vendorMatches,
	}
}

// IncFetch counts one similar-products lookup with the given outcome.
func (m *ConfirmationMetrics) IncFetch(outcome string) {
	if m == nil || m.fetches == nil {
		return
	}
	m.fetches.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncConfirmation counts one confirmation with the given result.
func (m *ConfirmationMetrics) IncConfirmation(result string) {
	if m == nil || m.confirmations == nil {
		return
	}
	m.confirmations.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveDuration records how long a confirmation took.
func (m *ConfirmationMetrics) ObserveDuration(duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(duration.Seconds())
}

// ObserveVendorMatches records the size of a report's vendor list.
func (m *ConfirmationMetrics) ObserveVendorMatches(count int) {
	if m == nil || m.vendorMatches == nil {
		return
	}
	m.vendorMatches.Observe(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
