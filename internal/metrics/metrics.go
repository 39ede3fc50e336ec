// Package metrics exposes Prometheus instrumentation for tool and
// plan executions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the runtime. It satisfies
// toolregistry.Observer and planner.PlanObserver.
type Metrics struct {
	registry *prometheus.Registry

	ToolExecutionsTotal      *prometheus.CounterVec
	ToolExecutionDuration    *prometheus.HistogramVec
	ToolExecutionErrorsTotal *prometheus.CounterVec

	PlanExecutionsTotal   *prometheus.CounterVec
	PlanExecutionDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		ToolExecutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_executions_total",
				Help: "Total number of tool executions",
			},
			[]string{"tool_name", "status"},
		),
		ToolExecutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tool_execution_duration_seconds",
				Help:    "Duration of tool executions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool_name"},
		),
		ToolExecutionErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_execution_errors_total",
				Help: "Total number of tool execution errors",
			},
			[]string{"tool_name"},
		),

		PlanExecutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plan_executions_total",
				Help: "Total number of plan executions",
			},
			[]string{"status"},
		),
		PlanExecutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "plan_execution_duration_seconds",
				Help:    "Duration of plan executions in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	registry.MustRegister(
		m.ToolExecutionsTotal,
		m.ToolExecutionDuration,
		m.ToolExecutionErrorsTotal,
		m.PlanExecutionsTotal,
		m.PlanExecutionDuration,
	)

	return m
}

// ObserveToolExecution records one tool execution outcome.
func (m *Metrics) ObserveToolExecution(tool string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
		m.ToolExecutionErrorsTotal.WithLabelValues(tool).Inc()
	}
	m.ToolExecutionsTotal.WithLabelValues(tool, status).Inc()
	m.ToolExecutionDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// ObservePlanExecution records one plan execution outcome.
func (m *Metrics) ObservePlanExecution(duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.PlanExecutionsTotal.WithLabelValues(status).Inc()
	m.PlanExecutionDuration.Observe(duration.Seconds())
}

// Handler returns an HTTP handler serving the metrics for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
