// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package events is the registry of metrics event types.
//
// Each event type is a Spec: a fixed event UUID, the table its rows go to,
// the payload signature it expects and a pure function extracting typed
// column values from that payload. Specs are grouped in a Registry together
// with two UUID sets:
//
//   - ignored: legacy events that are dropped at dispatch time;
//   - ignore-empty: events for which a missing payload drops the event
//     instead of producing an invalid row.
//
// Default returns the registry of every event type Azafea knows about. It is
// built once and must be treated as read-only. Tests construct their own
// registry with NewRegistry.
//
// # Adding an Event
//
// Declare a Spec in singular.go or aggregate.go and add it to the
// corresponding list. The table is created by the next migratedb run.
package events
