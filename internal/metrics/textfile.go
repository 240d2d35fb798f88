// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomtom215/azafea/internal/logging"
)

// DefaultTextfileInterval is used when the configured interval is not positive.
const DefaultTextfileInterval = 15 * time.Second

// TextfileExporter periodically writes a gatherer to a file in the Prometheus
// text format. It is a suture service.
type TextfileExporter struct {
	path     string
	interval time.Duration
	gatherer prometheus.Gatherer
}

// NewTextfileExporter returns an exporter of the default gatherer.
func NewTextfileExporter(path string, interval time.Duration) *TextfileExporter {
	if interval <= 0 {
		interval = DefaultTextfileInterval
	}
	return &TextfileExporter{path: path, interval: interval, gatherer: prometheus.DefaultGatherer}
}

// WithGatherer replaces the gatherer, for tests.
func (e *TextfileExporter) WithGatherer(g prometheus.Gatherer) *TextfileExporter {
	e.gatherer = g
	return e
}

// Write writes the file once. WriteToTextfile renames a temporary file so
// readers never see a partial file.
func (e *TextfileExporter) Write() error {
	if err := prometheus.WriteToTextfile(e.path, e.gatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", e.path, err)
	}
	return nil
}

// Serve writes the file every interval until ctx is done, then writes it a
// last time.
func (e *TextfileExporter) Serve(ctx context.Context) error {
	logging.Info().Str("path", e.path).Dur("interval", e.interval).Msg("Metrics textfile exporter started")

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := e.Write(); err != nil {
				logging.Warn().Err(err).Msg("Final metrics export failed")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := e.Write(); err != nil {
				logging.Warn().Err(err).Msg("Metrics export failed")
			}
		}
	}
}

// String names the service in supervisor logs.
func (e *TextfileExporter) String() string {
	return "metrics-textfile"
}
