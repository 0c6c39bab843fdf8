// Package metrics contains Prometheus metrics of the reaction monitor
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service
type Metrics struct {
	// Monitor lifecycle metrics
	MonitorsActive    prometheus.Gauge
	MonitorsActivated prometheus.Counter
	MonitorsCancelled prometheus.Counter
	MonitorsFired     *prometheus.CounterVec
	FireLatency       prometheus.Histogram
	DraftsInProgress  prometheus.Gauge
	InputRejections   *prometheus.CounterVec

	// Reaction update metrics
	ReactionUpdates *prometheus.CounterVec

	// Outbound metrics
	BestEffortFailures *prometheus.CounterVec
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return DefaultMetrics
}

// NewMetrics creates all collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MonitorsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "reaction_monitor_monitors_active",
			Help: "Current number of active monitors",
		}),
		MonitorsActivated: factory.NewCounter(prometheus.CounterOpts{
			Name: "reaction_monitor_monitors_activated_total",
			Help: "Total number of monitors activated",
		}),
		MonitorsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "reaction_monitor_monitors_cancelled_total",
			Help: "Total number of monitors cancelled by their owner",
		}),
		MonitorsFired: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reaction_monitor_monitors_fired_total",
				Help: "Total number of monitors that reached their threshold",
			},
			[]string{"emoji"},
		),
		FireLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reaction_monitor_fire_latency_seconds",
			Help:    "Time from activation to fire in seconds",
			Buckets: []float64{60, 300, 900, 3600, 4 * 3600, 12 * 3600, 24 * 3600, 7 * 24 * 3600},
		}),
		DraftsInProgress: factory.NewGauge(prometheus.GaugeOpts{
			Name: "reaction_monitor_drafts_in_progress",
			Help: "Current number of setup conversations in progress",
		}),
		InputRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reaction_monitor_input_rejections_total",
				Help: "Total number of rejected user actions",
			},
			[]string{"reason"},
		),
		ReactionUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reaction_monitor_reaction_updates_total",
				Help: "Total number of reaction updates by shape and outcome",
			},
			[]string{"kind", "outcome"},
		),
		BestEffortFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reaction_monitor_best_effort_failures_total",
				Help: "Total number of swallowed outbound failures",
			},
			[]string{"operation"},
		),
	}
}

// RecordActivation records a monitor activation
func (m *Metrics) RecordActivation() {
	m.MonitorsActivated.Inc()
}

// RecordCancellation records an owner cancellation
func (m *Metrics) RecordCancellation() {
	m.MonitorsCancelled.Inc()
}

// RecordFire records a fire and how long the monitor was active
func (m *Metrics) RecordFire(emoji string, activeSeconds float64) {
	m.MonitorsFired.WithLabelValues(emoji).Inc()
	if activeSeconds >= 0 {
		m.FireLatency.Observe(activeSeconds)
	}
}

// UpdateActiveMonitors sets the active monitors gauge
func (m *Metrics) UpdateActiveMonitors(count int) {
	m.MonitorsActive.Set(float64(count))
}

// UpdateDrafts sets the drafts gauge
func (m *Metrics) UpdateDrafts(count int) {
	m.DraftsInProgress.Set(float64(count))
}

// RecordRejection records a rejected user action
func (m *Metrics) RecordRejection(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	m.InputRejections.WithLabelValues(reason).Inc()
}

// RecordReactionUpdate records one reaction update
func (m *Metrics) RecordReactionUpdate(kind, outcome string) {
	m.ReactionUpdates.WithLabelValues(kind, outcome).Inc()
}

// RecordBestEffortFailure records a swallowed outbound failure
func (m *Metrics) RecordBestEffortFailure(operation string) {
	if operation == "" {
		operation = "unknown"
	}
	m.BestEffortFailures.WithLabelValues(operation).Inc()
}
