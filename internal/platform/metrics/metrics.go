// Package metrics provides operational metrics collection.
//
// Metrics are recorded by the dispatch router and exposed in Prometheus
// format on the HTTP transport's /metrics endpoint. Each instrument lives
// on a private registry so tests can run multiple bridges in one process
// without collisions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the bridge's Prometheus instruments. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	registry *prometheus.Registry

	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New creates the instrument set on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resolvebridge",
		Name:      "dispatches_total",
		Help:      "Operations dispatched, by operation name and outcome kind.",
	}, []string{"operation", "kind"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "resolvebridge",
		Name:      "dispatch_duration_seconds",
		Help:      "Wall time of one dispatch including host calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	registry.MustRegister(dispatches, duration)

	return &Metrics{
		registry:   registry,
		dispatches: dispatches,
		duration:   duration,
	}
}

// ObserveDispatch records one completed dispatch.
func (m *Metrics) ObserveDispatch(operation, kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(operation, kind).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
