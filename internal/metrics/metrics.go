// Package metrics exposes Prometheus instrumentation for the resolution
// pipeline and the HTTP layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pthurmond/odeum/internal/source"
)

// Recorder implements source.MetricsRecorder backed by a Prometheus
// registry.
type Recorder struct {
	registry *prometheus.Registry
	attempts *prometheus.CounterVec
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "odeum_resolve_attempts_total",
			Help: "Source resolution attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "odeum_http_requests_total",
			Help: "HTTP requests by method and status.",
		}, []string{"method", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "odeum_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// RecordAttempt counts one source attempt outcome.
func (r *Recorder) RecordAttempt(src source.Name, outcome source.Outcome) {
	r.attempts.WithLabelValues(string(src), string(outcome)).Inc()
}

// RecordRequest counts one finished HTTP request.
func (r *Recorder) RecordRequest(method string, status int, seconds float64) {
	r.requests.WithLabelValues(method, statusClass(status)).Inc()
	r.duration.WithLabelValues(method).Observe(seconds)
}

// Handler serves the /metrics scrape endpoint.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
