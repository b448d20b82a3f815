package gobrainz

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request pipeline:
// admissions, round trips, the digest retry and decode outcomes. It is safe
// for concurrent use.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	schedulerWait prometheus.Histogram

	authRetriesTotal *prometheus.CounterVec

	decodeErrorsTotal *prometheus.CounterVec

	errorsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobrainz_requests_total",
				Help: "Total number of web service requests made",
			},
			[]string{"kind", "status_code"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobrainz_request_duration_seconds",
				Help:    "Duration of web service requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "status_code"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gobrainz_requests_in_flight",
				Help: "Number of requests currently executing",
			},
			[]string{"kind"},
		),
		schedulerWait: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gobrainz_scheduler_wait_seconds",
				Help:    "Time spent waiting for scheduler admission",
				Buckets: prometheus.DefBuckets,
			},
		),
		authRetriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobrainz_auth_retries_total",
				Help: "Total number of digest challenge retries",
			},
			[]string{"kind"},
		),
		decodeErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobrainz_decode_errors_total",
				Help: "Total number of payload decode failures",
			},
			[]string{"kind"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobrainz_errors_total",
				Help: "Total number of classified errors",
			},
			[]string{"type", "kind"},
		),
	}
}

// RecordRequestStart increments the in-flight gauge for kind.
func (mc *MetricsCollector) RecordRequestStart(kind string) {
	mc.requestsInFlight.WithLabelValues(kind).Inc()
}

// RecordRequestEnd decrements the in-flight gauge for kind.
func (mc *MetricsCollector) RecordRequestEnd(kind string) {
	mc.requestsInFlight.WithLabelValues(kind).Dec()
}

// RecordRequest records a completed round trip.
func (mc *MetricsCollector) RecordRequest(kind string, statusCode int, duration time.Duration) {
	code := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(kind, code).Inc()
	mc.requestDuration.WithLabelValues(kind, code).Observe(duration.Seconds())
}

// RecordSchedulerWait records time spent blocked in scheduler admission.
func (mc *MetricsCollector) RecordSchedulerWait(duration time.Duration) {
	mc.schedulerWait.Observe(duration.Seconds())
}

// RecordAuthRetry records one digest challenge retry.
func (mc *MetricsCollector) RecordAuthRetry(kind string) {
	mc.authRetriesTotal.WithLabelValues(kind).Inc()
}

// RecordDecodeError records one payload decode failure.
func (mc *MetricsCollector) RecordDecodeError(kind string) {
	mc.decodeErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordError records one classified error.
func (mc *MetricsCollector) RecordError(errorType, kind string) {
	mc.errorsTotal.WithLabelValues(errorType, kind).Inc()
}
