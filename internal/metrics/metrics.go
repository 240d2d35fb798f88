// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "azafea"

const (
	resultCommitted = "committed"
	resultFailed    = "failed"
)

var (
	// Queue Metrics
	RecordsPopped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_popped_total",
			Help:      "Total number of records popped from a queue",
		},
		[]string{"queue"},
	)

	RecordsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_processed_total",
			Help:      "Total number of records handled, by result",
		},
		[]string{"queue", "handler", "result"}, // result: "committed", "failed"
	)

	RecordsDeadLettered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_dead_lettered_total",
			Help:      "Total number of records pushed to a dead-letter queue",
		},
		[]string{"queue", "category"},
	)

	RecordDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "record_processing_duration_seconds",
			Help:      "Time spent handling one record, transaction included",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"handler"},
	)

	QueueLength = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Last observed number of records waiting in a queue",
		},
		[]string{"queue"},
	)

	// Event Metrics
	MetricEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metric_events_total",
			Help:      "Total number of dispatched metric events",
		},
		[]string{"kind", "outcome"},
	)

	DuplicateRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_requests_total",
			Help:      "Total number of metric requests skipped because their fingerprint was already stored",
		},
	)

	// Maintenance Metrics
	MaintenanceRowsScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maintenance_rows_scanned_total",
			Help:      "Total number of rows read by maintenance sweeps",
		},
		[]string{"command"},
	)

	MaintenanceRowsChanged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maintenance_rows_changed_total",
			Help:      "Total number of rows rewritten, moved or deleted by maintenance sweeps",
		},
		[]string{"command"},
	)

	MaintenanceProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "maintenance_progress",
			Help:      "Rows done and total of the current maintenance sweep",
		},
		[]string{"command", "state"}, // state: "done", "total"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state_transitions_total",
			Help:      "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Worker Metrics
	WorkersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers_active",
			Help:      "Current number of running workers",
		},
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "app_info",
			Help:      "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordPopped records a record taken off queue.
func RecordPopped(queue string) {
	RecordsPopped.WithLabelValues(queue).Inc()
}

// RecordProcessed records the result and duration of one record.
func RecordProcessed(queue, handler string, duration time.Duration, failed bool) {
	result := resultCommitted
	if failed {
		result = resultFailed
	}
	RecordsProcessed.WithLabelValues(queue, handler, result).Inc()
	RecordDuration.WithLabelValues(handler).Observe(duration.Seconds())
}

// RecordDeadLettered records a record pushed to the dead-letter queue of
// queue, with the category of the error that sent it there.
func RecordDeadLettered(queue, category string) {
	RecordsDeadLettered.WithLabelValues(queue, category).Inc()
}

// SetQueueLength records the length of queue.
func SetQueueLength(queue string, length int64) {
	QueueLength.WithLabelValues(queue).Set(float64(length))
}

// RecordEvent records the outcome of one metric event.
func RecordEvent(kind, outcome string) {
	MetricEvents.WithLabelValues(kind, outcome).Inc()
}

// RecordDuplicateRequest records a request skipped by fingerprint.
func RecordDuplicateRequest() {
	DuplicateRequests.Inc()
}

// RecordMaintenance records one chunk of a maintenance sweep.
func RecordMaintenance(command string, scanned, changed int) {
	MaintenanceRowsScanned.WithLabelValues(command).Add(float64(scanned))
	MaintenanceRowsChanged.WithLabelValues(command).Add(float64(changed))
}

// SetMaintenanceProgress records how far command has got.
func SetMaintenanceProgress(command string, done, total int64) {
	MaintenanceProgress.WithLabelValues(command, "done").Set(float64(done))
	MaintenanceProgress.WithLabelValues(command, "total").Set(float64(total))
}

// Breaker states as exported by CircuitBreakerState.
const (
	BreakerClosed   = 0
	BreakerHalfOpen = 1
	BreakerOpen     = 2
)

// SetBreakerState records a transition of the named breaker. from and to are
// the breaker's own state names.
func SetBreakerState(name, from, to string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
	if from != "" {
		CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	}
}

// TrackWorker tracks running workers.
func TrackWorker(started bool) {
	if started {
		WorkersActive.Inc()
	} else {
		WorkersActive.Dec()
	}
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
