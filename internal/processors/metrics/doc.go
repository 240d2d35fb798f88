// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package metrics handles metrics-v3 requests, the endless.metrics.v3
// queue handler.
//
// A queue record is the server receive time in microseconds, 8 bytes little
// endian, followed by the request body: a GVariant of type
//
//	(xxsa{ss}ya(aysxmv)a(ayssumv))
//
// holding the client relative and absolute clocks, the image id, the site
// map, the boot flags, the singular events and the aggregate events.
//
// DecodeRecord parses a record into a Request. The Dispatcher routes every
// event of a request to exactly one outcome:
//
//	ignored UUID                     -> Drop
//	registered UUID, payload builds  -> Typed row in the event table
//	registered UUID, empty payload,
//	ignore-empty                     -> Drop
//	registered UUID, other failure   -> Invalid row
//	unregistered UUID                -> Unknown row
//
// Processor ties both to a database.Store. Replay re-runs the dispatcher
// over stored Invalid and Unknown rows for the maintenance commands.
package metrics
