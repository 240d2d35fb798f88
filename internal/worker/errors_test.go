// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tomtom215/azafea/internal/gvariant"
	"github.com/tomtom215/azafea/internal/processors/metrics"
)

func TestErrorCategoryString(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		want     string
	}{
		{ErrorCategoryUnknown, "unknown"},
		{ErrorCategoryConnection, "connection"},
		{ErrorCategoryTimeout, "timeout"},
		{ErrorCategoryValidation, "validation"},
		{ErrorCategoryDatabase, "database"},
		{ErrorCategory(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.category.String(); got != tt.want {
			t.Errorf("ErrorCategory(%d).String() = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ErrorCategoryUnknown},
		{"eof", fmt.Errorf("failed to insert: %w", io.EOF), ErrorCategoryConnection},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, ErrorCategoryConnection},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrorCategoryTimeout},
		{"malformed gvariant", fmt.Errorf("decode: %w", gvariant.ErrMalformed), ErrorCategoryValidation},
		{"short record", fmt.Errorf("wrap: %w", metrics.ErrShortRecord), ErrorCategoryValidation},
		{"timestamp overflow", fmt.Errorf("event: %w", metrics.ErrTimestampOverflow), ErrorCategoryValidation},
		{"unique violation", &pgconn.PgError{Code: "23505"}, ErrorCategoryDatabase},
		{"explicit retryable", &RetryableError{Message: "x", Category: ErrorCategoryTimeout}, ErrorCategoryTimeout},
		{"explicit permanent", NewPermanentError("bad record", nil), ErrorCategoryValidation},
		{"message", errors.New("could not parse field"), ErrorCategoryValidation},
		{"unclassified", errors.New("boom"), ErrorCategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.err); got != tt.want {
				t.Errorf("Categorize(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryableAndPermanentErrors(t *testing.T) {
	cause := errors.New("connection refused")

	retry := NewRetryableError("failed to reach database", cause)
	if retry.Category != ErrorCategoryConnection {
		t.Errorf("Category = %s, want connection", retry.Category)
	}
	if retry.Error() != "failed to reach database: connection refused" {
		t.Errorf("Error() = %q", retry.Error())
	}
	wrapped := fmt.Errorf("worker-0: %w", retry)
	if !IsRetryableError(wrapped) || IsPermanentError(wrapped) {
		t.Error("wrapped retryable error misclassified")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("retryable error does not unwrap to its cause")
	}

	perm := NewPermanentError("record rejected", nil)
	if perm.Error() != "record rejected" {
		t.Errorf("Error() = %q", perm.Error())
	}
	if !IsPermanentError(perm) || IsRetryableError(perm) {
		t.Error("permanent error misclassified")
	}
}

func TestRetryableErrorCategoryFromCause(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		want  ErrorCategory
	}{
		{"timeout", fmt.Errorf("insert: %w", context.DeadlineExceeded), ErrorCategoryTimeout},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, ErrorCategoryConnection},
		{"rejected statement", &pgconn.PgError{Code: "23505"}, ErrorCategoryDatabase},
		{"unclassified cause", errors.New("boom"), ErrorCategoryDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewRetryableError("failed to write to database", tt.cause).Category; got != tt.want {
				t.Errorf("Category = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBreakerIgnoresTimeouts(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"rejected statement", &pgconn.PgError{Code: "23505"}, true},
		{"connection reset", errors.New("write: connection reset by peer"), false},
		{"eof", fmt.Errorf("read: %w", io.EOF), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countsAsSuccess(tt.err); got != tt.want {
				t.Errorf("countsAsSuccess(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
