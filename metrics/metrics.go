// Package metrics bundles Prometheus collectors for the query pipeline.
//
// Collectors live on a dedicated registry so a batch run can expose or dump
// its own metrics without touching the global default registry. All methods
// are nil-receiver safe: a caller that opts out of metrics passes nil.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for one batch run.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	OutcomesTotal   *prometheus.CounterVec
	CapturesTotal   prometheus.Counter
	VariantRetries  prometheus.Counter
	URLsProcessed   prometheus.Counter
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cdxq_requests_total",
			Help: "Total CDX requests issued, by attempt kind.",
		},
		[]string{"kind"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cdxq_request_duration_seconds",
			Help:    "CDX request latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	outcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cdxq_outcomes_total",
			Help: "Round-trip classifications by kind.",
		},
		[]string{"classification"},
	)
	captures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cdxq_captures_total",
			Help: "Total capture rows returned.",
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cdxq_variant_retries_total",
			Help: "Total variant retry attempts issued.",
		},
	)
	urls := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cdxq_urls_processed_total",
			Help: "Input URLs fully processed.",
		},
	)

	registry.MustRegister(requests, requestDuration, outcomes, captures, retries, urls)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		OutcomesTotal:   outcomes,
		CapturesTotal:   captures,
		VariantRetries:  retries,
		URLsProcessed:   urls,
	}
}

// IncRequest increments the requests counter for an attempt kind
// ("initial" or "variant").
func (m *Metrics) IncRequest(kind string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(kind).Inc()
}

// ObserveDuration records one request latency.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncOutcome increments the classification counter.
func (m *Metrics) IncOutcome(classification string) {
	if m == nil {
		return
	}
	m.OutcomesTotal.WithLabelValues(classification).Inc()
}

// AddCaptures adds returned capture rows.
func (m *Metrics) AddCaptures(n int) {
	if m == nil {
		return
	}
	m.CapturesTotal.Add(float64(n))
}

// IncVariantRetry increments the variant retry counter.
func (m *Metrics) IncVariantRetry() {
	if m == nil {
		return
	}
	m.VariantRetries.Inc()
}

// IncURLProcessed marks one input URL as fully processed.
func (m *Metrics) IncURLProcessed() {
	if m == nil {
		return
	}
	m.URLsProcessed.Inc()
}
