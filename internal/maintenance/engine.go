// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package maintenance

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/logging"
	appmetrics "github.com/tomtom215/azafea/internal/metrics"
	"github.com/tomtom215/azafea/internal/models"
	"github.com/tomtom215/azafea/internal/processors/metrics"
	"github.com/tomtom215/azafea/internal/processors/metrics/events"
)

// Command names, as used in logs, metrics and on the command line.
const (
	CommandNormalizeVendors   = "normalize-vendors"
	CommandParseOldImages     = "parse-old-images"
	CommandTransformCountries = "transform-countries-alpha-3-to-2"
	CommandReplayInvalid      = "replay-invalid"
	CommandReplayUnknown      = "replay-unknown"
)

// Repo is the database surface of the sweeps. *database.DB implements it.
type Repo interface {
	PingConfigurationChunks(ctx context.Context, size int, fn database.ChunkFunc[models.PingConfiguration]) error
	VendorChunks(ctx context.Context, table string, size int, fn database.ChunkFunc[database.VendorRow]) error
	UnparsedImageChunks(ctx context.Context, target database.ImageTarget, size int, fn database.ChunkFunc[database.ImageRow]) error
	StoredEventChunks(ctx context.Context, table string, aggregate, withError bool, size int, fn database.ChunkFunc[models.StoredEvent]) error
	Alpha3Countries(ctx context.Context, table string) ([]string, error)
	UpdateCountry(ctx context.Context, table, from, to string) (int64, error)
	CountRows(ctx context.Context, table, where string, args ...interface{}) (int64, error)
	CountUnparsedImages(ctx context.Context, target database.ImageTarget) (int64, error)
}

var _ Repo = (*database.DB)(nil)

// Stats summarizes one sweep.
type Stats struct {
	Command string

	// Total is the number of rows the sweep expected to visit.
	Total int64

	// Scanned counts visited rows.
	Scanned int64

	// Changed counts rows rewritten in place or promoted to another table.
	Changed int64

	// Deleted counts rows removed, including merged duplicates.
	Deleted int64

	// Skipped counts rows left as they were because they could not be
	// processed.
	Skipped int64

	StartTime time.Time
	EndTime   time.Time
}

// Duration returns how long the sweep ran.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns the share of Total already scanned, in percent.
func (s *Stats) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Scanned) / float64(s.Total) * 100
}

// Engine runs the sweeps.
type Engine struct {
	repo       Repo
	dispatcher *metrics.Dispatcher
	chunkSize  int
	log        zerolog.Logger
}

// New returns an engine replaying events against registry. A chunk size
// that is not positive means database.DefaultChunkSize.
func New(repo Repo, registry *events.Registry, chunkSize int) *Engine {
	if chunkSize <= 0 {
		chunkSize = database.DefaultChunkSize
	}
	return &Engine{
		repo:       repo,
		dispatcher: metrics.NewDispatcher(registry),
		chunkSize:  chunkSize,
		log:        logging.WithComponent("maintenance"),
	}
}

// ChunkSize returns the number of rows per transaction.
func (e *Engine) ChunkSize() int { return e.chunkSize }

func (e *Engine) start(command string, total int64) *Stats {
	e.log.Info().Str("command", command).Int64("total", total).Int("chunk_size", e.chunkSize).Msg("Starting sweep")
	appmetrics.SetMaintenanceProgress(command, 0, total)
	return &Stats{Command: command, Total: total, StartTime: time.Now()}
}

// chunkDone reports a committed chunk.
func (e *Engine) chunkDone(s *Stats, table string) {
	appmetrics.SetMaintenanceProgress(s.Command, s.Scanned, s.Total)
	e.log.Info().
		Str("command", s.Command).
		Str("table", table).
		Int64("done", s.Scanned).
		Int64("total", s.Total).
		Float64("progress_percent", s.Progress()).
		Msg("Sweep progress")
}

func (e *Engine) finish(s *Stats, err error) (*Stats, error) {
	s.EndTime = time.Now()
	appmetrics.RecordMaintenance(s.Command, int(s.Scanned), int(s.Changed+s.Deleted))

	event := e.log.Info()
	msg := "Sweep finished"
	if err != nil {
		event = e.log.Error().Err(err)
		msg = "Sweep stopped, committed chunks are kept"
	}
	event.Str("command", s.Command).
		Int64("scanned", s.Scanned).
		Int64("changed", s.Changed).
		Int64("deleted", s.Deleted).
		Int64("skipped", s.Skipped).
		Dur("duration", s.Duration()).
		Msg(msg)
	return s, err
}

// countAll sums the row counts of tables.
func (e *Engine) countAll(ctx context.Context, tables ...string) (int64, error) {
	var total int64
	for _, t := range tables {
		n, err := e.repo.CountRows(ctx, t, "")
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
