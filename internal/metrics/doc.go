// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

/*
Package metrics provides Prometheus instrumentation for the ingestion pipeline.

All collectors are registered with the default registry through promauto and
are updated through the Record* and Set* helpers, so callers never touch a
collector directly.

# Exporting

The pipeline has no HTTP listener. When metrics.textfile_path is configured,
a TextfileExporter service rewrites that file with the contents of the default
gatherer every metrics.interval, for the node_exporter textfile collector:

	exporter := metrics.NewTextfileExporter("/var/lib/node_exporter/azafea.prom", time.Minute)
	supervisor.AddSupportService(exporter)

The file is also written once on shutdown.

# Available Metrics

Queue Metrics:
  - azafea_records_popped_total: Records taken off a queue (counter)
    Labels: queue
  - azafea_records_processed_total: Records handled (counter)
    Labels: queue, handler, result (committed, failed)
  - azafea_records_dead_lettered_total: Records pushed to errors-<queue> (counter)
    Labels: queue, category
  - azafea_record_processing_duration_seconds: Handler time per record (histogram)
    Labels: handler
  - azafea_queue_length: Last observed queue length (gauge)
    Labels: queue

Event Metrics:
  - azafea_metric_events_total: Dispatched metric events (counter)
    Labels: kind (singular, aggregate), outcome (typed, invalid, unknown, dropped)
  - azafea_duplicate_requests_total: Requests skipped by fingerprint (counter)

Maintenance Metrics:
  - azafea_maintenance_rows_scanned_total: Rows read by sweeps (counter)
    Labels: command
  - azafea_maintenance_rows_changed_total: Rows rewritten, moved or deleted (counter)
    Labels: command
  - azafea_maintenance_progress: Rows done and total of the running sweep (gauge)
    Labels: command, state (done, total)

Circuit Breaker Metrics:
  - azafea_circuit_breaker_state: Database breaker state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - azafea_circuit_breaker_state_transitions_total (counter)
    Labels: name, from_state, to_state

Worker Metrics:
  - azafea_workers_active: Running workers (gauge)
  - azafea_app_info: Build information (gauge)
    Labels: version, go_version

# Thread Safety

Every helper is safe for concurrent use.
*/
package metrics
