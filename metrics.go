package elastictiny

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request lifecycle:
// totals, latency, in-flight gauge, retries, errors by type and how often
// each configured host was selected. It is safe for concurrent use.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	retriesTotal *prometheus.CounterVec

	hostSelections *prometheus.CounterVec

	errorsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a metrics collector on the default
// registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "elastictiny_requests_total",
				Help: "Total number of Elasticsearch requests made",
			},
			[]string{"method", "status_code", "operation"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "elastictiny_request_duration_seconds",
				Help:    "Duration of Elasticsearch requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "operation"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "elastictiny_requests_in_flight",
				Help: "Number of Elasticsearch requests currently in flight",
			},
			[]string{"method", "operation"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "elastictiny_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"method", "operation", "attempt"},
		),
		hostSelections: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "elastictiny_host_selections_total",
				Help: "How often each configured host was selected for an attempt",
			},
			[]string{"host"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "elastictiny_errors_total",
				Help: "Total number of errors by type",
			},
			[]string{"type", "method", "operation"},
		),
	}
}

// RecordRequestStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(method, operation string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(method, operation).Inc()
}

// RecordRequestEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(method, operation string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(method, operation).Dec()
}

// RecordRequest records a finished logical call with its terminal status.
func (mc *MetricsCollector) RecordRequest(method, operation string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}
	code := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, code, operation).Inc()
	mc.requestDuration.WithLabelValues(method, code, operation).Observe(duration.Seconds())
}

// RecordRetry records one retry attempt.
func (mc *MetricsCollector) RecordRetry(method, operation string, attempt int) {
	if mc == nil {
		return
	}
	mc.retriesTotal.WithLabelValues(method, operation, strconv.Itoa(attempt)).Inc()
}

// RecordHostSelection records which host served an attempt.
func (mc *MetricsCollector) RecordHostSelection(host string) {
	if mc == nil {
		return
	}
	mc.hostSelections.WithLabelValues(host).Inc()
}

// RecordError records an error by type.
func (mc *MetricsCollector) RecordError(errorType, method, operation string) {
	if mc == nil {
		return
	}
	mc.errorsTotal.WithLabelValues(errorType, method, operation).Inc()
}
