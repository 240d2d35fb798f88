// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/azafea/internal/imageid"
)

// Core metrics tables.
const (
	TableChannel          = "channel_v3"
	TableRequest          = "request_v3"
	TableInvalidSingular  = "invalid_singular_event_v3"
	TableUnknownSingular  = "unknown_singular_event_v3"
	TableInvalidAggregate = "invalid_aggregate_event_v3"
	TableUnknownAggregate = "unknown_aggregate_event_v3"
)

// SiteKeys are the site map keys retained on a Channel; others are dropped.
var SiteKeys = []string{"id", "city", "state", "street", "country", "facility"}

// Channel identifies a cohort of submitters: the same image, site and boot
// flags always resolve to the same row.
type Channel struct {
	ID       int64
	ImageID  string
	Site     map[string]string
	DualBoot bool
	Live     bool

	// Image holds components parsed from ImageID once at creation.
	Image imageid.Image
}

// Request records one accepted metrics submission.
type Request struct {
	ID        int64
	ChannelID int64

	// SHA512 is the hex fingerprint of the request body.
	SHA512 string

	ReceivedAt time.Time

	// AbsoluteTimestamp is the client wall clock in nanoseconds after clock
	// reconciliation.
	AbsoluteTimestamp int64

	// RelativeTimestamp is the client monotonic clock in nanoseconds.
	RelativeTimestamp int64
}

// InvalidSingular is a singular event whose UUID is registered but whose
// payload failed validation.
type InvalidSingular struct {
	ID          int64
	ChannelID   int64
	OSVersion   string
	OccuredAt   time.Time
	EventID     uuid.UUID
	PayloadData []byte
	Error       string
}

// UnknownSingular is a singular event whose UUID was not registered when it
// was ingested.
type UnknownSingular struct {
	ID          int64
	ChannelID   int64
	OSVersion   string
	OccuredAt   time.Time
	EventID     uuid.UUID
	PayloadData []byte
}

// InvalidAggregate is the aggregate counterpart of InvalidSingular.
// PeriodStart keeps the submitted string since it may be the invalid part.
type InvalidAggregate struct {
	ID          int64
	ChannelID   int64
	OSVersion   string
	PeriodStart string
	Count       int64
	EventID     uuid.UUID
	PayloadData []byte
	Error       string
}

// UnknownAggregate is the aggregate counterpart of UnknownSingular.
type UnknownAggregate struct {
	ID          int64
	ChannelID   int64
	OSVersion   string
	PeriodStart string
	Count       int64
	EventID     uuid.UUID
	PayloadData []byte
}

// Row converts the event into an insertable row.
func (e InvalidSingular) Row() Row {
	return Row{Table: TableInvalidSingular, Fields: Fields{
		{"channel_id", e.ChannelID},
		{"os_version", e.OSVersion},
		{"occured_at", e.OccuredAt},
		{"event_id", e.EventID},
		{"payload_data", nonNilBytes(e.PayloadData)},
		{"error", e.Error},
	}}
}

// Row converts the event into an insertable row.
func (e UnknownSingular) Row() Row {
	return Row{Table: TableUnknownSingular, Fields: Fields{
		{"channel_id", e.ChannelID},
		{"os_version", e.OSVersion},
		{"occured_at", e.OccuredAt},
		{"event_id", e.EventID},
		{"payload_data", nonNilBytes(e.PayloadData)},
	}}
}

// Row converts the event into an insertable row.
func (e InvalidAggregate) Row() Row {
	return Row{Table: TableInvalidAggregate, Fields: Fields{
		{"channel_id", e.ChannelID},
		{"os_version", e.OSVersion},
		{"period_start", e.PeriodStart},
		{"count", e.Count},
		{"event_id", e.EventID},
		{"payload_data", nonNilBytes(e.PayloadData)},
		{"error", e.Error},
	}}
}

// Row converts the event into an insertable row.
func (e UnknownAggregate) Row() Row {
	return Row{Table: TableUnknownAggregate, Fields: Fields{
		{"channel_id", e.ChannelID},
		{"os_version", e.OSVersion},
		{"period_start", e.PeriodStart},
		{"count", e.Count},
		{"event_id", e.EventID},
		{"payload_data", nonNilBytes(e.PayloadData)},
	}}
}

// payload_data is NOT NULL; an absent payload is stored as zero bytes.
func nonNilBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// StoredEvent is an invalid or unknown event read back for replay. Singular
// rows set OccuredAt; aggregate rows set PeriodStart and Count. Error is
// empty for unknown events.
type StoredEvent struct {
	ID          int64
	ChannelID   int64
	OSVersion   string
	OccuredAt   time.Time
	PeriodStart string
	Count       int64
	EventID     uuid.UUID
	PayloadData []byte
	Error       string
}
