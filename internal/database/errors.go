// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package database

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tomtom215/azafea/internal/logging"
)

// ErrClosed is returned by a Session used after Commit or Rollback.
var ErrClosed = errors.New("database: session already closed")

// PostgreSQL SQLSTATE codes Azafea branches on.
const (
	codeUniqueViolation = "23505"
	codeUndefinedTable  = "42P01"
)

// IsConnectionError reports whether err means the server could not be
// reached or the connection broke, as opposed to a rejected statement.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	// context.DeadlineExceeded satisfies net.Error.
	if errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception. Class 57P: operator intervention,
		// e.g. the server is shutting down.
		return strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P")
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "closed pool") ||
		strings.Contains(msg, "conn closed")
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// IsUndefinedTable reports whether err is caused by a missing table.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUndefinedTable
}

// IsNoRows reports whether err is pgx.ErrNoRows.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// rollbackQuietly rolls back s and logs a failure. Use it on error paths
// where the rollback error is not actionable.
func rollbackQuietly(ctx context.Context, s Session) {
	if s == nil {
		return
	}
	if err := s.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, ErrClosed) {
		logging.Warn().Err(err).Msg("Failed to roll back transaction")
	}
}
