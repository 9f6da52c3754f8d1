package transport

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics captures outgoing request telemetry on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	requestFailures *prometheus.CounterVec
}

// NewMetrics builds the metric set and registers the collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_client_request_duration_seconds",
		Help:    "Latency of outgoing API requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_client_requests_total",
		Help: "Count of outgoing API requests.",
	}, []string{"method", "path", "status"})

	requestFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_client_request_failures_total",
		Help: "Count of outgoing API requests that failed before a response.",
	}, []string{"method", "path"})

	registry.MustRegister(requestDuration, requestTotal, requestFailures)

	return &Metrics{
		registry:        registry,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		requestFailures: requestFailures,
	}
}

// Registry exposes the underlying registry for scraping or inspection.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one completed round-trip.
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

// ObserveFailure records a request that never produced a response.
func (m *Metrics) ObserveFailure(method, path string) {
	if m == nil {
		return
	}
	m.requestFailures.With(prometheus.Labels{"method": method, "path": path}).Inc()
}
