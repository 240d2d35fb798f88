// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package database is the PostgreSQL persistence layer of Azafea.
//
// # Overview
//
// Every worker and every maintenance command opens its own *DB, a pgx
// connection pool sized by postgresql.max_conns. Nothing here is shared
// across workers.
//
// Ingestion runs inside a Session, one transaction per queue record:
//
//	sess, err := db.Begin(ctx)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Process(ctx, sess, record); err != nil {
//	    sess.Rollback(ctx)
//	    return err
//	}
//	return sess.Commit(ctx)
//
// # Writes
//
// Parent rows (channel_v3, ping_configuration_v1) are upserted with
// INSERT ... ON CONFLICT ... DO UPDATE ... RETURNING id so two concurrent
// workers resolve to the same row. Requests are inserted with
// ON CONFLICT (sha512) DO NOTHING; InsertRequest reports whether the row is
// new so the caller can skip the events of a duplicate submission.
//
// Event rows travel as models.Row and share one insert path. Table and
// column names are quoted with pgx.Identifier.
//
// # Chunked scans
//
// ChunkedQuery walks a table by primary key with keyset pagination
// (WHERE id > $1 ORDER BY id LIMIT n, or the descending equivalent). Each
// chunk is fetched and processed in its own transaction which is committed
// before the next chunk is read, so an interrupted sweep can be re-run.
//
// # Schema
//
// Migrate applies the versioned core migrations recorded in
// schema_migrations, then creates one table per registered event type.
// DropAll removes all of it.
package database
