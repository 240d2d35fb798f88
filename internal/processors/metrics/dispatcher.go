// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/azafea/internal/gvariant"
	"github.com/tomtom215/azafea/internal/logging"
	"github.com/tomtom215/azafea/internal/models"
	"github.com/tomtom215/azafea/internal/processors/metrics/events"
)

// OutcomeKind is the routing decision for one event.
type OutcomeKind int

const (
	Typed OutcomeKind = iota
	Invalid
	Unknown
	Drop
)

func (k OutcomeKind) String() string {
	switch k {
	case Typed:
		return "typed"
	case Invalid:
		return "invalid"
	case Unknown:
		return "unknown"
	default:
		return "dropped"
	}
}

// Outcome is the result of dispatching one event. Row is empty for Drop.
type Outcome struct {
	Kind    OutcomeKind
	EventID uuid.UUID
	Row     models.Row

	// Err is the build failure for Invalid and for an empty payload Drop.
	Err error

	// Ignored is set when Drop comes from the ignored event list.
	Ignored bool
}

// periodLayouts are the accepted aggregate period_start formats. A month
// means its first day.
var periodLayouts = []string{"2006-01-02", "2006-01"}

// occurrence is one event, from a request or from a stored row.
type occurrence struct {
	kind        events.Kind
	eventID     uuid.UUID
	channelID   int64
	osVersion   string
	occuredAt   time.Time
	periodStart string
	count       int64
	payload     gvariant.Maybe
	raw         []byte
}

// Dispatcher routes events through an event registry.
type Dispatcher struct {
	registry *events.Registry
}

// NewDispatcher returns a dispatcher over registry.
func NewDispatcher(registry *events.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Registry returns the registry the dispatcher routes through.
func (d *Dispatcher) Registry() *events.Registry { return d.registry }

// Singular dispatches one (aysxmv) tuple of req. A malformed event UUID is
// returned as an error since it makes the whole request unusable.
func (d *Dispatcher) Singular(ctx context.Context, req *Request, child gvariant.Value) (Outcome, error) {
	t := child.(gvariant.Tuple)
	id, err := gvariant.AsUUID(t[0])
	if err != nil {
		return Outcome{}, fmt.Errorf("invalid singular event UUID: %w", err)
	}
	payload := t[3].(gvariant.Maybe)

	eventNS, err := EventTime(req.Request.AbsoluteTimestamp, req.Request.RelativeTimestamp, int64(t[2].(gvariant.Int64)))
	if err != nil {
		return Outcome{}, fmt.Errorf("singular event %s: %w", id, err)
	}

	return d.dispatch(ctx, occurrence{
		kind:      events.Singular,
		eventID:   id,
		channelID: req.Channel.ID,
		osVersion: string(t[1].(gvariant.String)),
		occuredAt: time.Unix(0, eventNS).UTC(),
		payload:   payload,
		raw:       gvariant.Marshal(payload),
	}), nil
}

// Aggregate dispatches one (ayssumv) tuple of req.
func (d *Dispatcher) Aggregate(ctx context.Context, req *Request, child gvariant.Value) (Outcome, error) {
	t := child.(gvariant.Tuple)
	id, err := gvariant.AsUUID(t[0])
	if err != nil {
		return Outcome{}, fmt.Errorf("invalid aggregate event UUID: %w", err)
	}
	payload := t[4].(gvariant.Maybe)

	return d.dispatch(ctx, occurrence{
		kind:        events.Aggregate,
		eventID:     id,
		channelID:   req.Channel.ID,
		osVersion:   string(t[1].(gvariant.String)),
		periodStart: string(t[2].(gvariant.String)),
		count:       int64(t[3].(gvariant.Uint32)),
		payload:     payload,
		raw:         gvariant.Marshal(payload),
	}), nil
}

// EventTime returns absolute - relative + eventRelative in nanoseconds. It
// fails with ErrTimestampOverflow when the result does not fit in int64.
func EventTime(absolute, relative, eventRelative int64) (int64, error) {
	origin := absolute - relative
	if (relative > 0 && origin > absolute) || (relative < 0 && origin < absolute) {
		return 0, fmt.Errorf("%w: %d - %d", ErrTimestampOverflow, absolute, relative)
	}
	ns := origin + eventRelative
	if (eventRelative > 0 && ns < origin) || (eventRelative < 0 && ns > origin) {
		return 0, fmt.Errorf("%w: %d + %d", ErrTimestampOverflow, origin, eventRelative)
	}
	return ns, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, occ occurrence) Outcome {
	id := occ.eventID.String()
	if d.registry.IsIgnored(id) {
		return Outcome{Kind: Drop, EventID: occ.eventID, Ignored: true}
	}

	spec, ok := d.registry.Lookup(occ.kind, id)
	if !ok {
		return Outcome{Kind: Unknown, EventID: occ.eventID, Row: unknownRow(occ)}
	}

	row, err := typedRow(ctx, spec, occ)
	if err == nil {
		return Outcome{Kind: Typed, EventID: occ.eventID, Row: row}
	}
	if events.IsEmptyPayload(err) && d.registry.IsIgnoreEmpty(id) {
		return Outcome{Kind: Drop, EventID: occ.eventID, Err: err}
	}
	return Outcome{Kind: Invalid, EventID: occ.eventID, Row: invalidRow(occ, err), Err: err}
}

func typedRow(ctx context.Context, spec *events.Spec, occ occurrence) (models.Row, error) {
	var common models.Fields
	if occ.kind == events.Aggregate {
		period, err := ParsePeriodStart(occ.periodStart)
		if err != nil {
			return models.Row{}, fmt.Errorf("Metric event %s has %w", spec.ID, err)
		}
		common = models.Fields{
			{Name: "channel_id", Value: occ.channelID},
			{Name: "os_version", Value: occ.osVersion},
			{Name: "period_start", Value: period},
			{Name: "count", Value: occ.count},
		}
	} else {
		common = models.Fields{
			{Name: "channel_id", Value: occ.channelID},
			{Name: "os_version", Value: occ.osVersion},
			{Name: "occured_at", Value: occ.occuredAt},
		}
	}

	if spec.Payload == nil && !occ.payload.IsNothing() {
		logging.Ctx(ctx).Warn().
			Str("event_id", spec.ID).
			Str("event", spec.Name).
			Str("payload", gvariant.Print(occ.payload)).
			Msg("Metric event takes no payload, ignoring the one received")
	}

	fields, err := spec.Fields(occ.payload)
	if err != nil {
		return models.Row{}, err
	}
	return models.Row{Table: spec.Table, Fields: append(common, fields...)}, nil
}

// ParsePeriodStart parses an aggregate period_start, "YYYY-MM-DD" or
// "YYYY-MM", as a UTC date.
func ParsePeriodStart(s string) (time.Time, error) {
	for _, layout := range periodLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("an invalid period_start %q", s)
}

func unknownRow(occ occurrence) models.Row {
	if occ.kind == events.Aggregate {
		return models.UnknownAggregate{
			ChannelID:   occ.channelID,
			OSVersion:   occ.osVersion,
			PeriodStart: occ.periodStart,
			Count:       occ.count,
			EventID:     occ.eventID,
			PayloadData: occ.raw,
		}.Row()
	}
	return models.UnknownSingular{
		ChannelID:   occ.channelID,
		OSVersion:   occ.osVersion,
		OccuredAt:   occ.occuredAt,
		EventID:     occ.eventID,
		PayloadData: occ.raw,
	}.Row()
}

func invalidRow(occ occurrence, err error) models.Row {
	if occ.kind == events.Aggregate {
		return models.InvalidAggregate{
			ChannelID:   occ.channelID,
			OSVersion:   occ.osVersion,
			PeriodStart: occ.periodStart,
			Count:       occ.count,
			EventID:     occ.eventID,
			PayloadData: occ.raw,
			Error:       err.Error(),
		}.Row()
	}
	return models.InvalidSingular{
		ChannelID:   occ.channelID,
		OSVersion:   occ.osVersion,
		OccuredAt:   occ.occuredAt,
		EventID:     occ.eventID,
		PayloadData: occ.raw,
		Error:       err.Error(),
	}.Row()
}
