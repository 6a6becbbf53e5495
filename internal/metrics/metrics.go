// Package metrics exposes Prometheus metrics for the triage cycle,
// the assistant, and the HTTP surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jackzampolin/docsort/internal/types"
)

const namespace = "docsort"

// Metrics holds every collector on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	classifications     *prometheus.CounterVec
	relocationFailures  prometheus.Counter
	extractionFailures  *prometheus.CounterVec
	extractionDuration  *prometheus.HistogramVec
	queueRemaining      prometheus.Gauge
	queueProcessed      prometheus.Gauge
	assistantRequests   *prometheus.CounterVec
	assistantFirstToken prometheus.Histogram

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge
}

// New creates Metrics with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classifications_total",
				Help:      "Documents moved into a bucket.",
			},
			[]string{"bucket"},
		),
		relocationFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "relocation_failures_total",
				Help:      "Classification decisions whose file move failed.",
			},
		),
		extractionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extraction_failures_total",
				Help:      "Degraded extraction passes by failure kind.",
			},
			[]string{"kind"},
		),
		extractionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "extraction_duration_seconds",
				Help:      "Time spent in each extraction pass per document.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pass"},
		),
		queueRemaining: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "queue_remaining",
				Help:      "Documents left in the current session.",
			},
		),
		queueProcessed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "queue_processed",
				Help:      "Documents classified in the current session.",
			},
		),
		assistantRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assistant_requests_total",
				Help:      "Assistant completions by outcome.",
			},
			[]string{"status"},
		),
		assistantFirstToken: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "assistant_first_token_seconds",
				Help:      "Latency until the first streamed token.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		requestInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "in_flight_requests",
				Help:      "HTTP requests currently being served.",
			},
		),
	}

	m.registry.MustRegister(
		m.classifications,
		m.relocationFailures,
		m.extractionFailures,
		m.extractionDuration,
		m.queueRemaining,
		m.queueProcessed,
		m.assistantRequests,
		m.assistantFirstToken,
		m.requestTotal,
		m.requestDuration,
		m.requestInFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveExtraction records one extraction pass over a document.
func (m *Metrics) ObserveExtraction(pass string, elapsed time.Duration, err error) {
	m.extractionDuration.WithLabelValues(pass).Observe(elapsed.Seconds())
	if err == nil {
		return
	}
	kind, ok := types.FailureKindOf(err)
	if !ok {
		kind = "unknown"
	}
	m.extractionFailures.WithLabelValues(string(kind)).Inc()
}

// ObserveClassification records the outcome of one decision.
func (m *Metrics) ObserveClassification(b types.Bucket, err error) {
	if err == nil {
		m.classifications.WithLabelValues(b.String()).Inc()
		return
	}
	if kind, ok := types.FailureKindOf(err); ok && kind == types.FailureRelocation {
		m.relocationFailures.Inc()
	}
}

// ObserveQueue records session progress.
func (m *Metrics) ObserveQueue(processed, total int) {
	m.queueProcessed.Set(float64(processed))
	m.queueRemaining.Set(float64(total - processed))
}

// Assistant request outcomes.
const (
	AssistantOK          = "ok"
	AssistantError       = "error"
	AssistantRejected    = "rejected"
	AssistantUnavailable = "unavailable"
)

// ObserveAssistant records one assistant completion.
func (m *Metrics) ObserveAssistant(status string, firstToken time.Duration) {
	if status == "" {
		status = "unknown"
	}
	m.assistantRequests.WithLabelValues(status).Inc()
	if firstToken > 0 {
		m.assistantFirstToken.Observe(firstToken.Seconds())
	}
}
