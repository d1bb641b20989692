package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ScreeningsTotal       *prometheus.CounterVec
	ProviderLatency       prometheus.Histogram
	HistoryAppendFailures prometheus.Counter
	ProfilesCreated       prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ScreeningsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "amlgate_screenings_total",
			Help: "Total screening attempts by reconciled outcome category",
		}, []string{"category"}),
		ProviderLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "amlgate_provider_roundtrip_seconds",
			Help:    "Wall-clock duration of external provider calls",
			Buckets: prometheus.DefBuckets,
		}),
		HistoryAppendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amlgate_history_append_failures_total",
			Help: "Search-history writes that failed and were swallowed",
		}),
		ProfilesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amlgate_profiles_created_total",
			Help: "Total customer profiles created",
		}),
	}
}

// ObserveScreening records one completed screening attempt.
func (m *Metrics) ObserveScreening(category string) {
	m.ScreeningsTotal.WithLabelValues(category).Inc()
}

// ObserveProviderLatency records a provider round trip in seconds.
func (m *Metrics) ObserveProviderLatency(seconds float64) {
	m.ProviderLatency.Observe(seconds)
}

// IncHistoryAppendFailures counts a swallowed history write failure.
func (m *Metrics) IncHistoryAppendFailures() {
	m.HistoryAppendFailures.Inc()
}

// IncProfilesCreated increments the profiles created counter by 1.
func (m *Metrics) IncProfilesCreated() {
	m.ProfilesCreated.Inc()
}
