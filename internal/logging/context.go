// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	recordKey        contextKey = "record"
	loggerKey        contextKey = "logger"
)

// Record identifies the queue record being handled.
type Record struct {
	Worker  int
	Queue   string
	Handler string
	Size    int
}

// GenerateCorrelationID returns the first 8 characters of a random UUID.
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

// ContextWithCorrelationID returns a context carrying id.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRecord returns a context carrying rec and a fresh correlation
// ID.
func ContextWithRecord(ctx context.Context, rec Record) context.Context {
	ctx = context.WithValue(ctx, recordKey, rec)
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// RecordFromContext returns the record stored by ContextWithRecord.
func RecordFromContext(ctx context.Context) (Record, bool) {
	rec, ok := ctx.Value(recordKey).(Record)
	return rec, ok
}

// ContextWithLogger stores a logger in the context.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the stored logger, or the global one.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns a logger with the record fields and correlation ID of ctx.
//
//	logging.Ctx(ctx).Warn().Str("event_id", id).Msg("Unexpected payload")
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := LoggerFromContext(ctx)
	logCtx := logger.With()

	if rec, ok := RecordFromContext(ctx); ok {
		logCtx = logCtx.Int("worker", rec.Worker).Str("queue", rec.Queue)
		if rec.Handler != "" {
			logCtx = logCtx.Str("handler", rec.Handler)
		}
		if rec.Size > 0 {
			logCtx = logCtx.Int("record_size", rec.Size)
		}
	}
	if id := CorrelationIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("correlation_id", id)
	}

	l := logCtx.Logger()
	return &l
}
