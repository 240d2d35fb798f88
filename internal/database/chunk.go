// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// DefaultChunkSize is the number of rows per chunk when none is given.
const DefaultChunkSize = 5000

// ChunkQuery describes a keyset-paginated scan of one table.
type ChunkQuery[T any] struct {
	Table string

	// Columns are selected in order and handed to Scan. The first column
	// must be the primary key "id".
	Columns []string

	// Where is an optional predicate using $1.. for Args.
	Where string
	Args  []interface{}

	// Size is the number of rows per chunk. Zero means DefaultChunkSize.
	Size int

	// Reverse walks the table from the highest id down.
	Reverse bool

	Scan func(pgx.Rows) (T, error)

	// ID returns the primary key of an item.
	ID func(T) int64
}

// ChunkFunc processes one chunk inside its transaction.
type ChunkFunc[T any] func(ctx context.Context, s Session, items []T) error

func (q *ChunkQuery[T]) size() int {
	if q.Size <= 0 {
		return DefaultChunkSize
	}
	return q.Size
}

// sql renders the query for the chunk following last. hasLast is false for
// the first chunk.
func (q *ChunkQuery[T]) sql(last int64, hasLast bool) (string, []interface{}) {
	var preds []string
	args := append([]interface{}(nil), q.Args...)
	if q.Where != "" {
		preds = append(preds, "("+q.Where+")")
	}

	order := "id"
	op := ">"
	if q.Reverse {
		order = "id DESC"
		op = "<"
	}
	if hasLast {
		args = append(args, last)
		preds = append(preds, fmt.Sprintf("id %s $%d", op, len(args)))
	}

	cols := make([]string, len(q.Columns))
	for i, c := range q.Columns {
		cols[i] = quote(c)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", strings.Join(cols, ", "), quote(q.Table))
	if len(preds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(preds, " AND "))
	}
	fmt.Fprintf(&sb, " ORDER BY %s LIMIT %d", order, q.size())
	return sb.String(), args
}

func (q *ChunkQuery[T]) validate() error {
	switch {
	case q.Table == "":
		return errors.New("database: chunk query has no table")
	case len(q.Columns) == 0 || q.Columns[0] != "id":
		return fmt.Errorf("database: chunk query on %s must select id first", q.Table)
	case q.Scan == nil || q.ID == nil:
		return fmt.Errorf("database: chunk query on %s needs Scan and ID", q.Table)
	}
	return nil
}

// ChunkedQuery runs fn over every row matched by q, one chunk at a time.
// Each chunk is read and processed in a fresh transaction that is committed
// before the next chunk is fetched. A failing chunk is rolled back and ends
// the scan; chunks already committed stay committed.
func ChunkedQuery[T any](ctx context.Context, db *DB, q ChunkQuery[T], fn ChunkFunc[T]) error {
	if err := q.validate(); err != nil {
		return err
	}

	var (
		last    int64
		hasLast bool
	)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, next, err := runChunk(ctx, db, &q, last, hasLast, fn)
		if err != nil {
			return err
		}
		if n < q.size() {
			return nil
		}
		last, hasLast = next, true
	}
}

func runChunk[T any](ctx context.Context, db *DB, q *ChunkQuery[T], last int64, hasLast bool, fn ChunkFunc[T]) (int, int64, error) {
	sess, err := db.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	tx := sess.(*txSession)

	items, err := fetchChunk(ctx, tx.tx, q, last, hasLast)
	if err != nil {
		rollbackQuietly(ctx, sess)
		return 0, 0, err
	}
	if len(items) == 0 {
		rollbackQuietly(ctx, sess)
		return 0, 0, nil
	}

	if err := fn(ctx, sess, items); err != nil {
		rollbackQuietly(ctx, sess)
		return 0, 0, err
	}
	if err := sess.Commit(ctx); err != nil {
		return 0, 0, err
	}
	return len(items), q.ID(items[len(items)-1]), nil
}

func fetchChunk[T any](ctx context.Context, tx pgx.Tx, q *ChunkQuery[T], last int64, hasLast bool) ([]T, error) {
	sql, args := q.sql(last, hasLast)
	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s chunk: %w", q.Table, err)
	}
	defer rows.Close()

	items := make([]T, 0, q.size())
	for rows.Next() {
		item, err := q.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", q.Table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s chunk: %w", q.Table, err)
	}
	return items, nil
}
