// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package worker

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/gvariant"
	"github.com/tomtom215/azafea/internal/processors/metrics"
	"github.com/tomtom215/azafea/internal/validation"
)

// ErrorCategory categorizes handler errors for logs and metrics.
type ErrorCategory int

const (
	// ErrorCategoryUnknown is the default category for unclassified errors.
	ErrorCategoryUnknown ErrorCategory = iota
	// ErrorCategoryConnection indicates network or connection failures.
	ErrorCategoryConnection
	// ErrorCategoryTimeout indicates operation timeout.
	ErrorCategoryTimeout
	// ErrorCategoryValidation indicates a record that cannot be decoded or
	// fails validation.
	ErrorCategoryValidation
	// ErrorCategoryDatabase indicates a statement rejected by PostgreSQL.
	ErrorCategoryDatabase
)

// String returns the string representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorCategoryConnection:
		return "connection"
	case ErrorCategoryTimeout:
		return "timeout"
	case ErrorCategoryValidation:
		return "validation"
	case ErrorCategoryDatabase:
		return "database"
	default:
		return "unknown"
	}
}

// RetryableError marks a transient failure: the same record may succeed
// once the cause is gone.
type RetryableError struct {
	Message  string
	Cause    error
	Category ErrorCategory
}

// NewRetryableError creates a new retryable error. The category comes from
// the cause when it can be classified, from the message otherwise.
func NewRetryableError(message string, cause error) *RetryableError {
	return &RetryableError{
		Message:  message,
		Cause:    cause,
		Category: categorizeWith(message, cause),
	}
}

// Error implements the error interface.
func (e *RetryableError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error unwrapping.
func (e *RetryableError) Unwrap() error {
	return e.Cause
}

// PermanentError marks a record that will never succeed as is.
type PermanentError struct {
	Message  string
	Cause    error
	Category ErrorCategory
}

// NewPermanentError creates a new permanent error. Unclassified messages
// are treated as validation failures.
func NewPermanentError(message string, cause error) *PermanentError {
	category := categorizeWith(message, cause)
	if category == ErrorCategoryUnknown {
		category = ErrorCategoryValidation
	}
	return &PermanentError{
		Message:  message,
		Cause:    cause,
		Category: category,
	}
}

// Error implements the error interface.
func (e *PermanentError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error unwrapping.
func (e *PermanentError) Unwrap() error {
	return e.Cause
}

// IsRetryableError checks if the error is retryable.
func IsRetryableError(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// IsPermanentError checks if the error is permanent (non-retryable).
func IsPermanentError(err error) bool {
	var permErr *PermanentError
	return errors.As(err, &permErr)
}

// Categorize returns the category of a handler error. Explicit
// RetryableError and PermanentError categories win, then known error types,
// then the message.
func Categorize(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryUnknown
	}

	var retryErr *RetryableError
	if errors.As(err, &retryErr) {
		return retryErr.Category
	}
	var permErr *PermanentError
	if errors.As(err, &permErr) {
		return permErr.Category
	}

	var verr *validation.RequestValidationError
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorCategoryTimeout
	case database.IsConnectionError(err):
		return ErrorCategoryConnection
	case errors.Is(err, gvariant.ErrMalformed),
		errors.Is(err, gvariant.ErrNotNormalForm),
		errors.Is(err, metrics.ErrShortRecord),
		errors.Is(err, metrics.ErrTimestampOverflow),
		errors.As(err, &verr):
		return ErrorCategoryValidation
	case errors.As(err, &pgErr):
		return ErrorCategoryDatabase
	}
	return categorizeErrorMessage(err.Error())
}

func categorizeWith(message string, cause error) ErrorCategory {
	if c := Categorize(cause); c != ErrorCategoryUnknown {
		return c
	}
	return categorizeErrorMessage(message)
}

// categorizeErrorMessage attempts to categorize an error based on its message.
func categorizeErrorMessage(message string) ErrorCategory {
	switch {
	case containsAny(message, "connection", "connect", "refused", "reset", "network"):
		return ErrorCategoryConnection
	case containsAny(message, "timeout", "deadline", "timed out"):
		return ErrorCategoryTimeout
	case containsAny(message, "invalid", "validation", "malformed", "parse"):
		return ErrorCategoryValidation
	case containsAny(message, "database", "sql", "query", "insert"):
		return ErrorCategoryDatabase
	default:
		return ErrorCategoryUnknown
	}
}

func containsAny(s string, substrs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
