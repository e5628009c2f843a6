package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	ConditionQueries *prometheus.CounterVec // labels: outcome={ok,no_data,source_error,bad_request}
	SourceFetches    *prometheus.CounterVec // labels: source, outcome={success,error}
	FetchDuration    prometheus.Histogram
	CacheLookups     *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeRequests  *prometheus.CounterVec // labels: method={forward,reverse}, outcome={success,error,empty}
}

func newMetrics() *Metrics {
	return &Metrics{
		ConditionQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parade_weather",
			Name:      "condition_queries_total",
			Help:      "Condition probability queries by outcome.",
		}, []string{"outcome"}),
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parade_weather",
			Name:      "source_fetches_total",
			Help:      "Upstream daily-series fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "parade_weather",
			Name:      "source_fetch_duration_seconds",
			Help:      "Duration of upstream daily-series fetches.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parade_weather",
			Name:      "series_cache_lookups_total",
			Help:      "Series cache lookups by result.",
		}, []string{"result"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parade_weather",
			Name:      "geocode_requests_total",
			Help:      "Geocoding requests by method and outcome.",
		}, []string{"method", "outcome"}),
	}
}

// NewMetrics creates the collectors and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ConditionQueries,
		m.SourceFetches,
		m.FetchDuration,
		m.CacheLookups,
		m.GeocodeRequests,
	)
	return m
}

// NewMetricsForTesting creates unregistered collectors to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
