// Package metrics exposes Prometheus collectors for provider calls and the
// realtime channel.
//
// Metrics:
//   - gateway_provider_requests_total: provider calls by provider, operation and outcome
//   - gateway_provider_request_duration_seconds: provider call latency
//   - gateway_realtime_connections: currently open realtime connections
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gateway"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// Metrics owns a private registry; nothing is registered globally.
type Metrics struct {
	registry *prometheus.Registry

	providerRequests    *prometheus.CounterVec
	providerLatency     *prometheus.HistogramVec
	realtimeConnections prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		providerRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_requests_total",
				Help:      "Total number of calls to external providers",
			},
			[]string{"provider", "operation", "outcome"},
		),

		providerLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_request_duration_seconds",
				Help:      "External provider call latency in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"provider", "operation"},
		),

		realtimeConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "realtime_connections",
				Help:      "Number of open realtime connections",
			},
		),
	}

	m.registry.MustRegister(
		m.providerRequests,
		m.providerLatency,
		m.realtimeConnections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveProviderCall records one outbound provider call.
func (m *Metrics) ObserveProviderCall(provider, operation string, elapsed time.Duration, err error) {
	m.providerRequests.WithLabelValues(provider, operation, outcome(err)).Inc()
	m.providerLatency.WithLabelValues(provider, operation).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}

// ConnectionOpened increments the open realtime connections gauge.
func (m *Metrics) ConnectionOpened() {
	m.realtimeConnections.Inc()
}

// ConnectionClosed decrements the open realtime connections gauge.
func (m *Metrics) ConnectionClosed() {
	m.realtimeConnections.Dec()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
