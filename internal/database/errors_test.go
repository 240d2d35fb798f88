// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"eof", fmt.Errorf("read: %w", io.EOF), true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"refused message", errors.New("dial tcp 10.0.0.1:5432: connect: connection refused"), true},
		{"syntax", errors.New("syntax error at or near SELECT"), false},
		{"statement timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConnectionError(tt.err); got != tt.want {
				t.Errorf("IsConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorClassifiers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeUniqueViolation})
	if !IsUniqueViolation(unique) {
		t.Error("IsUniqueViolation() = false for 23505")
	}
	if IsUniqueViolation(errors.New("other")) {
		t.Error("IsUniqueViolation() = true for a plain error")
	}
	if !IsUndefinedTable(&pgconn.PgError{Code: codeUndefinedTable}) {
		t.Error("IsUndefinedTable() = false for 42P01")
	}
	if !IsNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)) {
		t.Error("IsNoRows() = false for wrapped ErrNoRows")
	}
}
