// Package metrics exposes Prometheus instrumentation for tasks, actions,
// LLM calls, exports and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "webnav"

// Collector owns its registry so several can coexist in one process.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	tasksTotal     *prometheus.CounterVec
	taskDuration   prometheus.Histogram
	actionsTotal   *prometheus.CounterVec
	llmRequests    *prometheus.CounterVec
	llmDuration    *prometheus.HistogramVec
	llmTokens      *prometheus.CounterVec
	exportsTotal   *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	activeSessions prometheus.Gauge
}

// NewCollector creates a collector with Go runtime and process collectors
// registered alongside the application metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Collector{
		registry: reg,
		tasksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tasks_total",
			Help:      "Tasks executed, by final status.",
		}, []string{"status"}),
		taskDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "task_duration_seconds",
			Help:      "End-to-end task duration in seconds.",
			Buckets:   []float64{1, 5, 10, 20, 30, 60, 120, 300},
		}),
		actionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "actions_total",
			Help:      "Browser actions executed, by kind and outcome.",
		}, []string{"kind", "status"}),
		llmRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "llm_requests_total",
			Help:      "LLM requests, by provider and status.",
		}, []string{"provider", "status"}),
		llmDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "LLM request duration in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"provider"}),
		llmTokens: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "llm_prompt_tokens_total",
			Help:      "Estimated prompt tokens sent to the LLM.",
		}, []string{"provider"}),
		exportsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "exports_total",
			Help:      "Result files written, by format.",
		}, []string{"format"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status code.",
		}, []string{"path", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "browser_sessions_active",
			Help:      "Browser sessions currently open.",
		}),
	}
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordTask records a finished task.
func (c *Collector) RecordTask(success bool, d time.Duration) {
	if c == nil {
		return
	}
	c.tasksTotal.WithLabelValues(status(success)).Inc()
	c.taskDuration.Observe(d.Seconds())
}

// RecordAction records one executed browser action.
func (c *Collector) RecordAction(kind string, failed bool) {
	if c == nil {
		return
	}
	c.actionsTotal.WithLabelValues(kind, status(!failed)).Inc()
}

// RecordLLM records one LLM call.
func (c *Collector) RecordLLM(provider string, err error, d time.Duration, promptTokens int) {
	if c == nil {
		return
	}
	c.llmRequests.WithLabelValues(provider, status(err == nil)).Inc()
	c.llmDuration.WithLabelValues(provider).Observe(d.Seconds())
	c.llmTokens.WithLabelValues(provider).Add(float64(promptTokens))
}

// RecordExport records a written result file.
func (c *Collector) RecordExport(format string) {
	if c == nil {
		return
	}
	c.exportsTotal.WithLabelValues(format).Inc()
}

// RecordHTTP records one served request.
func (c *Collector) RecordHTTP(path string, code int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(path, strconv.Itoa(code)).Inc()
	c.httpDuration.WithLabelValues(path).Observe(d.Seconds())
}

// SessionOpened increments the active browser session gauge.
func (c *Collector) SessionOpened() {
	if c == nil {
		return
	}
	c.activeSessions.Inc()
}

// SessionClosed decrements the active browser session gauge.
func (c *Collector) SessionClosed() {
	if c == nil {
		return
	}
	c.activeSessions.Dec()
}

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}
