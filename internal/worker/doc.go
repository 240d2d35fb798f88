// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

/*
Package worker runs the queue consumers.

# Workers

A Worker owns one Redis client and one PostgreSQL pool, opened when it
starts. It pops records from its queues in configuration order, so an
earlier queue has priority, and handles them one at a time:

	BRPOP q1 q2 ... timeout
	BEGIN
	handler.Process(record)
	COMMIT

When the handler or the commit fails, the transaction is rolled back and
the record is pushed verbatim onto errors-<queue>. Records are never retried
automatically; `azafea replay-errors <queue>` moves them back.

Handlers run on a context detached from cancellation: a signal never
interrupts a record in flight. Workers check for a drain between pops.

# Circuit Breaker

Each worker wraps its transactions in a gobreaker circuit breaker that only
counts database connection failures. While it is open the worker stops
popping, so records wait in Redis instead of filling the dead-letter queues
during an outage.

# Error Categories

Errors are categorized for logs and metrics (connection, timeout,
validation, database). The category never changes what happens to the
record.

# Controller

A Controller builds main.number_of_workers workers under a suture tree and
traps SIGINT and SIGTERM. The first signal drains the workers; a second one
terminates the process. With main.exit_on_empty_queues, each worker exits
the first time its pop times out, and Run returns once all of them did.
*/
package worker
