// Package metrics provides Prometheus metrics export for the agent pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusExporter exports run and agent metrics in Prometheus format.
type PrometheusExporter struct {
	registry *prometheus.Registry

	// Run metrics
	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram

	// Agent metrics
	agentDuration  *prometheus.HistogramVec
	fallbacks      *prometheus.CounterVec
	clarifications *prometheus.CounterVec

	// LLM token metrics
	llmTokens *prometheus.CounterVec
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for duration histograms (in seconds)
	DurationBuckets []float64
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		DurationBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(cfg Config) *PrometheusExporter {
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = DefaultConfig().DurationBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &PrometheusExporter{registry: registry}

	e.runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifepilot",
			Subsystem: "runs",
			Name:      "total",
			Help:      "Total orchestrated runs by final status",
		},
		[]string{"status"},
	)

	e.runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "lifepilot",
			Subsystem: "runs",
			Name:      "duration_seconds",
			Help:      "End-to-end run duration in seconds",
			Buckets:   cfg.DurationBuckets,
		},
	)

	e.agentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lifepilot",
			Subsystem: "agent",
			Name:      "duration_seconds",
			Help:      "Per-agent stage duration in seconds",
			Buckets:   cfg.DurationBuckets,
		},
		[]string{"agent"},
	)

	e.fallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifepilot",
			Subsystem: "agent",
			Name:      "fallbacks_total",
			Help:      "Total fallback results substituted by agents",
		},
		[]string{"agent"},
	)

	e.clarifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifepilot",
			Subsystem: "agent",
			Name:      "clarifications_total",
			Help:      "Total clarification questions raised by agents",
		},
		[]string{"agent"},
	)

	e.llmTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifepilot",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"model", "token_type"},
	)

	registry.MustRegister(
		e.runs,
		e.runDuration,
		e.agentDuration,
		e.fallbacks,
		e.clarifications,
		e.llmTokens,
	)

	return e
}

// RecordRun records one finished run with its final status.
func (e *PrometheusExporter) RecordRun(status string, duration time.Duration) {
	e.runs.WithLabelValues(status).Inc()
	e.runDuration.Observe(duration.Seconds())
}

// RecordAgentStage records one agent stage duration.
func (e *PrometheusExporter) RecordAgentStage(agent string, duration time.Duration) {
	e.agentDuration.WithLabelValues(agent).Observe(duration.Seconds())
}

// RecordFallback records that an agent substituted a fallback result.
func (e *PrometheusExporter) RecordFallback(agent string) {
	e.fallbacks.WithLabelValues(agent).Inc()
}

// RecordClarification records that an agent asked a clarifying question.
func (e *PrometheusExporter) RecordClarification(agent string) {
	e.clarifications.WithLabelValues(agent).Inc()
}

// RecordLLMTokens records LLM token usage.
func (e *PrometheusExporter) RecordLLMTokens(model, tokenType string, count int) {
	e.llmTokens.WithLabelValues(model, tokenType).Add(float64(count))
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// GetRegistry returns the Prometheus registry.
func (e *PrometheusExporter) GetRegistry() *prometheus.Registry {
	return e.registry
}
