// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package metrics

import (
	"context"
	"fmt"

	"github.com/tomtom215/azafea/internal/gvariant"
	"github.com/tomtom215/azafea/internal/models"
	"github.com/tomtom215/azafea/internal/processors/metrics/events"
)

// payloadType is the type of a stored payload_data column: the serialized
// maybe-variant of the original event.
var payloadType = gvariant.MustParseType("mv")

// Source is the kind of table a replayed row was read from.
type Source int

const (
	FromInvalid Source = iota
	FromUnknown
)

func (s Source) String() string {
	if s == FromUnknown {
		return "unknown"
	}
	return "invalid"
}

// ReplayAction tells a sweep what to do with a stored row.
type ReplayAction int

const (
	// Keep leaves the stored row in place.
	Keep ReplayAction = iota
	// Delete removes the stored row.
	Delete
	// Promote inserts Outcome.Row and removes the stored row.
	Promote
)

func (a ReplayAction) String() string {
	switch a {
	case Delete:
		return "delete"
	case Promote:
		return "promote"
	default:
		return "keep"
	}
}

// Replayed is the decision for one stored row.
type Replayed struct {
	Action  ReplayAction
	Outcome Outcome
}

// Replay dispatches a stored invalid or unknown event against the current
// registry.
//
// From an invalid table, a row is promoted when it now builds and deleted
// when its UUID is now ignored or its empty payload is now dropped. From an
// unknown table, a row whose UUID is now registered is promoted to a typed
// row, or to an invalid row when it fails to build. Anything else is kept.
func (d *Dispatcher) Replay(ctx context.Context, kind events.Kind, from Source, stored models.StoredEvent) Replayed {
	occ := occurrence{
		kind:        kind,
		eventID:     stored.EventID,
		channelID:   stored.ChannelID,
		osVersion:   stored.OSVersion,
		occuredAt:   stored.OccuredAt,
		periodStart: stored.PeriodStart,
		count:       stored.Count,
		raw:         stored.PayloadData,
	}

	v, err := gvariant.ParseAs(payloadType, stored.PayloadData)
	if err != nil {
		return d.replayUnparseable(kind, from, occ, err)
	}
	occ.payload = v.(gvariant.Maybe)

	out := d.dispatch(ctx, occ)
	switch out.Kind {
	case Typed:
		return Replayed{Action: Promote, Outcome: out}
	case Drop:
		return Replayed{Action: Delete, Outcome: out}
	case Invalid:
		if from == FromUnknown {
			return Replayed{Action: Promote, Outcome: out}
		}
	}
	return Replayed{Action: Keep, Outcome: out}
}

func (d *Dispatcher) replayUnparseable(kind events.Kind, from Source, occ occurrence, parseErr error) Replayed {
	id := occ.eventID.String()
	if d.registry.IsIgnored(id) {
		return Replayed{Action: Delete, Outcome: Outcome{Kind: Drop, EventID: occ.eventID, Ignored: true}}
	}
	if _, ok := d.registry.Lookup(kind, id); !ok {
		return Replayed{Action: Keep, Outcome: Outcome{Kind: Unknown, EventID: occ.eventID}}
	}

	err := fmt.Errorf("Metric event %s has an unreadable payload: %w", id, parseErr)
	out := Outcome{Kind: Invalid, EventID: occ.eventID, Err: err}
	if from == FromInvalid {
		return Replayed{Action: Keep, Outcome: out}
	}
	out.Row = invalidRow(occ, err)
	return Replayed{Action: Promote, Outcome: out}
}
