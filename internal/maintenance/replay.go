// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package maintenance

import (
	"context"
	"fmt"

	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/models"
	"github.com/tomtom215/azafea/internal/processors/metrics"
	"github.com/tomtom215/azafea/internal/processors/metrics/events"
)

type storedTable struct {
	name string
	kind events.Kind
}

var (
	invalidTables = []storedTable{
		{models.TableInvalidSingular, events.Singular},
		{models.TableInvalidAggregate, events.Aggregate},
	}
	unknownTables = []storedTable{
		{models.TableUnknownSingular, events.Singular},
		{models.TableUnknownAggregate, events.Aggregate},
	}
)

// ReplayInvalid dispatches every invalid event again. Events that now
// build become typed rows, events that are now ignored are deleted, the
// rest stay.
func (e *Engine) ReplayInvalid(ctx context.Context) (*Stats, error) {
	return e.replay(ctx, CommandReplayInvalid, metrics.FromInvalid, invalidTables)
}

// ReplayUnknown dispatches every unknown event again. Events whose type is
// now registered become typed rows, or invalid rows when they fail to
// build. Events that are now ignored are deleted.
func (e *Engine) ReplayUnknown(ctx context.Context) (*Stats, error) {
	return e.replay(ctx, CommandReplayUnknown, metrics.FromUnknown, unknownTables)
}

func (e *Engine) replay(ctx context.Context, command string, from metrics.Source, tables []storedTable) (*Stats, error) {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.name
	}
	total, err := e.countAll(ctx, names...)
	if err != nil {
		return nil, err
	}
	stats := e.start(command, total)

	withError := from == metrics.FromInvalid
	for _, t := range tables {
		t := t
		aggregate := t.kind == events.Aggregate
		err := e.repo.StoredEventChunks(ctx, t.name, aggregate, withError, e.chunkSize, func(ctx context.Context, s database.Session, items []models.StoredEvent) error {
			var changed, deleted int64
			for _, stored := range items {
				r := e.dispatcher.Replay(ctx, t.kind, from, stored)
				switch r.Action {
				case metrics.Promote:
					if err := s.InsertRow(ctx, r.Outcome.Row); err != nil {
						return fmt.Errorf("failed to replay %s row %d: %w", t.name, stored.ID, err)
					}
					if err := s.DeleteByID(ctx, t.name, stored.ID); err != nil {
						return err
					}
					changed++
				case metrics.Delete:
					if err := s.DeleteByID(ctx, t.name, stored.ID); err != nil {
						return err
					}
					deleted++
				default:
					continue
				}
				e.log.Debug().
					Str("table", t.name).
					Int64("id", stored.ID).
					Str("event_id", stored.EventID.String()).
					Stringer("action", r.Action).
					Stringer("outcome", r.Outcome.Kind).
					Msg("Replayed stored event")
			}
			stats.Scanned += int64(len(items))
			stats.Changed += changed
			stats.Deleted += deleted
			e.chunkDone(stats, t.name)
			return nil
		})
		if err != nil {
			return e.finish(stats, err)
		}
	}
	return e.finish(stats, nil)
}
