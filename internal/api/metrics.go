package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics recorded by the Client.
// The registry is owned by the embedder; a CLI invocation typically uses a
// private registry, a long-lived embedder can expose it for scraping.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all client metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storectl",
				Name:      "api_requests_total",
				Help:      "Total API requests issued, by operation and outcome",
			},
			[]string{"op", "status"}, // status=ok/error
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "storectl",
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
}

// observe records one request. Safe to call on a nil receiver.
func (m *Metrics) observe(op string, err error, seconds float64) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(op, status).Inc()
	m.RequestDuration.WithLabelValues(op).Observe(seconds)
}
