// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// TimestampLayout is the created_at format of ping and activation records.
const TimestampLayout = "2006-01-02 15:04:05.000000Z"

// timestampParseLayouts are tried in order. Fractional seconds after the
// seconds field are accepted by time.Parse even when absent from the layout.
var timestampParseLayouts = []string{"2006-01-02 15:04:05Z", time.RFC3339Nano}

// Timestamp is a UTC time in TimestampLayout on the wire.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s as a UTC created_at value.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampParseLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q, want %q", s, TimestampLayout)
}

// UnmarshalJSON implements json.Unmarshaler. A JSON null leaves t zero.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(TimestampLayout))
}
