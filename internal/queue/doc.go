// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package queue wraps the Redis lists Azafea consumes.
//
// Producers LPUSH raw records onto a queue. Workers BRPOP from every
// configured queue at once; Redis returns from the first non-empty list in
// the order given, so queue priority follows configuration order. A record
// a handler fails on is LPUSHed verbatim onto errors-<queue>.
package queue
