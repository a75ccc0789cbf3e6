// Package metrics exposes prometheus counters for ingestion, scheduled jobs
// and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spigell/abang/internal/ingest"
)

const namespace = "abang"

var httpDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Metrics owns a private registry so tests and multiple servers do not collide.
type Metrics struct {
	registry *prometheus.Registry

	ingestRuns    prometheus.Counter
	ingestFetched prometheus.Counter
	ingestStored  prometheus.Counter
	ingestSkipped prometheus.Counter
	ingestErrors  prometheus.Counter
	jobRuns       *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

var _ ingest.Recorder = (*Metrics)(nil)

// New registers all collectors. Go and process collectors are included when
// runtime is true.
func New(runtime bool) *Metrics {
	registry := prometheus.NewRegistry()
	if runtime {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		)
	}

	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      name,
			Help:      help,
		})
	}

	m := &Metrics{
		registry:      registry,
		ingestRuns:    counter("runs_total", "Ingestion executions."),
		ingestFetched: counter("fetched_total", "Listings fetched and normalized."),
		ingestStored:  counter("stored_total", "Listings upserted."),
		ingestSkipped: counter("skipped_total", "Listings dropped by filters."),
		ingestErrors:  counter("errors_total", "Per-item fetch and mapping errors."),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "job_runs_total",
			Help:      "Scheduled job executions by outcome.",
		}, []string{"job", "status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   httpDurationBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		m.ingestRuns, m.ingestFetched, m.ingestStored, m.ingestSkipped, m.ingestErrors,
		m.jobRuns, m.httpRequests, m.httpDurations,
	)

	return m
}

// RecordIngest adds the outcome of one ingestion run.
func (m *Metrics) RecordIngest(result *ingest.Result) {
	if m == nil || result == nil {
		return
	}

	m.ingestRuns.Inc()
	m.ingestFetched.Add(float64(result.Fetched))
	m.ingestStored.Add(float64(result.Stored))
	m.ingestSkipped.Add(float64(result.Skipped))
	m.ingestErrors.Add(float64(len(result.Errors)))
}

// RecordJob counts a scheduled job run.
func (m *Metrics) RecordJob(name string, err error) {
	if m == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	m.jobRuns.WithLabelValues(name, status).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Middleware records request counts and latency labelled by the matched chi
// route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDurations.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
