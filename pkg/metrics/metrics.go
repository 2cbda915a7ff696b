// Package metrics provides the Prometheus collectors of the catalogue: an
// operation counter, operation latency and graph query latency, all served
// from one registry on /metrics.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultBuckets are the default histogram buckets (in seconds).
var DefaultBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// Outcomes recorded per operation.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds the catalogue collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	queries    *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stagebase_operations_total",
			Help: "Catalogue operations by model, operation and outcome",
		}, []string{"model", "op", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stagebase_operation_duration_seconds",
			Help:    "Catalogue operation latency",
			Buckets: DefaultBuckets,
		}, []string{"model", "op"}),
		queries: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stagebase_query_duration_seconds",
			Help:    "Graph query latency by result",
			Buckets: DefaultBuckets,
		}, []string{"result"}),
	}
}

// Observe records one finished operation.
func (m *Metrics) Observe(model, op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(model, op, outcome).Inc()
	m.duration.WithLabelValues(model, op).Observe(elapsed.Seconds())
}

// ObserveQuery records one graph query. Its signature matches the store's
// query hook.
func (m *Metrics) ObserveQuery(_ context.Context, _ string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.queries.WithLabelValues(result).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, for extra collectors and tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
