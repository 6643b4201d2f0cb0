// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voicescribe"

// Metrics groups every collector. All methods are safe on a nil receiver so
// callers that do not care about metrics can pass nil.
type Metrics struct {
	registry *prometheus.Registry

	pipelineRuns        *prometheus.CounterVec
	upstreamDuration    *prometheus.HistogramVec
	persistenceFailures prometheus.Counter
	cleanupWarnings     prometheus.Counter
	historySize         prometheus.Histogram
	httpRequests        *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		pipelineRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Transcribe pipeline runs by terminal state.",
		}, []string{"state"}),
		upstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Latency of speech-to-text provider calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60, 120},
		}, []string{"provider", "outcome"}),
		persistenceFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Transcripts returned to the caller but not written to history.",
		}),
		cleanupWarnings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanup_warnings_total",
			Help:      "Uploaded blobs that could not be deleted.",
		}),
		historySize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "history_list_size",
			Help:      "Number of records returned by history listings.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
		}),
		httpRequests: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) PipelineFinished(state string) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(state).Inc()
}

func (m *Metrics) UpstreamCall(provider string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.upstreamDuration.WithLabelValues(provider, outcome).Observe(d.Seconds())
}

func (m *Metrics) PersistenceFailed() {
	if m == nil {
		return
	}
	m.persistenceFailures.Inc()
}

func (m *Metrics) CleanupFailed() {
	if m == nil {
		return
	}
	m.cleanupWarnings.Inc()
}

func (m *Metrics) HistoryListed(n int) {
	if m == nil {
		return
	}
	m.historySize.Observe(float64(n))
}

func (m *Metrics) HTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, httpStatus(status)).Observe(d.Seconds())
}

func httpStatus(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
