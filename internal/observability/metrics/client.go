package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClientMetrics instruments outbound backend calls and pipeline state
// transitions observed by the client.
type ClientMetrics struct {
	registry *prometheus.Registry
	service  string

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	transitionsTotal *prometheus.CounterVec
	uploadBytesTotal prometheus.Counter
}

func NewClientMetrics(service string) *ClientMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rpilot",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total backend requests by operation and outcome kind.",
		},
		[]string{"service", "operation", "kind"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rpilot",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Backend request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rpilot",
			Subsystem: "api",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight backend requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	transitionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rpilot",
			Subsystem: "pipeline",
			Name:      "status_transitions_total",
			Help:      "Résumé status transitions applied to the local view.",
		},
		[]string{"service", "status"},
	)
	uploadBytesTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rpilot",
			Subsystem: "pipeline",
			Name:      "upload_bytes_total",
			Help:      "Total résumé bytes uploaded.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(requestTotal, requestDuration, requestInFlight, transitionsTotal, uploadBytesTotal)

	return &ClientMetrics{
		registry:         registry,
		service:          service,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		transitionsTotal: transitionsTotal,
		uploadBytesTotal: uploadBytesTotal,
	}
}

func (m *ClientMetrics) ObserveRequest(operation, kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(m.service, operation, kind).Inc()
	m.requestDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
}

func (m *ClientMetrics) RequestStarted() {
	if m == nil {
		return
	}
	m.requestInFlight.Inc()
}

func (m *ClientMetrics) RequestFinished() {
	if m == nil {
		return
	}
	m.requestInFlight.Dec()
}

func (m *ClientMetrics) RecordTransition(status string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(m.service, status).Inc()
}

func (m *ClientMetrics) RecordUploadBytes(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.uploadBytesTotal.Add(float64(n))
}

// Handler exposes the registry for an optional local /metrics endpoint.
func (m *ClientMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
