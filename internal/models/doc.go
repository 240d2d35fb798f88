// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package models defines the rows Azafea persists.
//
// Parent rows (Channel, PingConfiguration) are upserted on their uniqueness
// tuple and never mutated by ingestion. Every other row is append-only.
// Maintenance sweeps are the only code that rewrites columns or deletes rows.
//
// Event rows are not modelled as one struct per event type. An event table is
// described by a TableSpec and its rows travel as a generic Row of ordered
// Fields, so the persistence layer needs a single insert path for every
// typed, invalid and unknown event.
package models
