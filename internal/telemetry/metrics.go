package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
//
// Metrics:
//   - portfolio_project_operations_total{operation,result}
//   - portfolio_file_cleanup_failures_total
//   - portfolio_http_request_duration_seconds{method,route,status}
type Metrics struct {
	registry *prometheus.Registry

	ProjectOperations *prometheus.CounterVec
	CleanupFailures   prometheus.Counter
	RequestDuration   *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ProjectOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_project_operations_total",
				Help: "Project lifecycle operations by outcome",
			},
			[]string{"operation", "result"},
		),
		CleanupFailures: f.NewCounter(
			prometheus.CounterOpts{
				Name: "portfolio_file_cleanup_failures_total",
				Help: "Best-effort file deletions that failed",
			},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portfolio_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// RecordOperation is safe on a nil receiver.
func (m *Metrics) RecordOperation(operation, result string) {
	if m == nil {
		return
	}
	m.ProjectOperations.WithLabelValues(operation, result).Inc()
}

// CleanupCounter returns nil on a nil receiver.
func (m *Metrics) CleanupCounter() prometheus.Counter {
	if m == nil {
		return nil
	}
	return m.CleanupFailures
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
