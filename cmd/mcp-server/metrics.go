package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors of one server. Each instance has
// its own registry.
type Metrics struct {
	registry *prometheus.Registry

	toolCallsTotal          *prometheus.CounterVec   // tool calls by tool and outcome
	toolCallDuration        *prometheus.HistogramVec // time spent in HandleToolCall
	processStartTimeSeconds prometheus.Gauge         // process start time in seconds since unix epoch
}

func newMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.toolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expressivo_tool_calls_total",
			Help: "Number of tool calls handled.",
		},
		// tool: tool name, or "unknown" for names the server does not know
		// status: "ok" or "error"
		[]string{"tool", "status"},
	)
	m.registry.MustRegister(m.toolCallsTotal)

	m.toolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "expressivo_tool_call_duration_seconds",
			Help:    "Time taken to handle a tool call.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)
	m.registry.MustRegister(m.toolCallDuration)

	m.processStartTimeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "expressivo_process_start_time_seconds",
			Help: "Start time of the process since unix epoch in seconds.",
		},
	)
	m.registry.MustRegister(m.processStartTimeSeconds)
	m.processStartTimeSeconds.SetToCurrentTime()

	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveToolCall(tool string, ok bool, elapsed time.Duration) {
	status := "ok"
	if !ok {
		status = "error"
	}
	m.toolCallsTotal.With(prometheus.Labels{"tool": tool, "status": status}).Inc()
	m.toolCallDuration.With(prometheus.Labels{"tool": tool}).Observe(elapsed.Seconds())
}
