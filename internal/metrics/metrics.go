package metrics

import (
	"net/http"
	"time"

	"github.com/harun/batai/pkg/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application. It
// implements toolexecutor.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	ToolExecutionsTotal         *prometheus.CounterVec
	ToolExecutionDuration       *prometheus.HistogramVec
	ToolValidationFailuresTotal *prometheus.CounterVec
	ToolsRegistered             prometheus.Gauge
	PolicyReloadsTotal          prometheus.Counter
}

// NewMetrics creates and registers all metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		ToolExecutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "batai_tool_executions_total",
				Help: "Total number of tool executions",
			},
			[]string{"tool_name", "status"},
		),
		ToolExecutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "batai_tool_execution_duration_seconds",
				Help:    "Duration of tool executions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool_name"},
		),
		ToolValidationFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "batai_tool_validation_failures_total",
				Help: "Total number of rejected tool parameter sets",
			},
			[]string{"tool_name", "kind"},
		),
		ToolsRegistered: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "batai_tools_registered",
				Help: "Number of registered tools",
			},
		),
		PolicyReloadsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "batai_policy_reloads_total",
				Help: "Total number of tool policy reloads",
			},
		),
	}

	m.registry.MustRegister(
		m.ToolExecutionsTotal,
		m.ToolExecutionDuration,
		m.ToolValidationFailuresTotal,
		m.ToolsRegistered,
		m.PolicyReloadsTotal,
	)

	return m
}

// RecordExecution records one finished tool execution
func (m *Metrics) RecordExecution(tool, status string, duration time.Duration) {
	m.ToolExecutionsTotal.WithLabelValues(tool, status).Inc()
	m.ToolExecutionDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordValidationFailure records a rejected parameter set
func (m *Metrics) RecordValidationFailure(tool string, kind validator.ErrorKind) {
	m.ToolValidationFailuresTotal.WithLabelValues(tool, string(kind)).Inc()
}

// SetToolsRegistered sets the registered tool gauge
func (m *Metrics) SetToolsRegistered(n int) {
	m.ToolsRegistered.Set(float64(n))
}

// RecordPolicyReload counts a tool policy reload
func (m *Metrics) RecordPolicyReload() {
	m.PolicyReloadsTotal.Inc()
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
