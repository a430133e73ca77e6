package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics records calls made to the marketplace backend.
type UpstreamMetrics struct {
	duration *prometheus.HistogramVec
	failure  *prometheus.CounterVec
	breaker  *prometheus.CounterVec
}

// NewUpstreamMetrics registers the upstream metrics on the provided registerer.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		return &UpstreamMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of marketplace backend calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_request_failures_total",
		Help: "Marketplace backend calls that returned non-2xx or failed in transport.",
	}, []string{"endpoint"})
	breaker := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_breaker_transitions_total",
		Help: "Circuit breaker state changes for the marketplace backend.",
	}, []string{"to"})
	reg.MustRegister(duration, failure, breaker)
	return &UpstreamMetrics{
		duration: duration,
		failure:  failure,
		breaker:  breaker,
	}
}

// Observe records one backend call. A zero status means the call never got a response.
func (m *UpstreamMetrics) Observe(endpoint string, status int, took time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.duration.WithLabelValues(normalizeLabel(endpoint), label).Observe(took.Seconds())
	if status == 0 || status >= 300 {
		m.failure.WithLabelValues(normalizeLabel(endpoint)).Inc()
	}
}

// BreakerTransition counts a breaker moving into the named state.
func (m *UpstreamMetrics) BreakerTransition(to string) {
	if m == nil || m.breaker == nil {
		return
	}
	m.breaker.WithLabelValues(normalizeLabel(to)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
