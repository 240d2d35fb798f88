// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package worker

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/azafea/internal/config"
	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/logging"
	appmetrics "github.com/tomtom215/azafea/internal/metrics"
)

const (
	defaultBreakerThreshold = 5
	defaultBreakerTimeout   = 30 * time.Second
)

// newBreaker returns a database circuit breaker. Only connection errors
// count as failures: a record the database rejects says nothing about the
// database being reachable.
func newBreaker(name string, cfg config.BreakerConfig) *gobreaker.CircuitBreaker[struct{}] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = defaultBreakerThreshold
	}
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = defaultBreakerTimeout
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || countsAsSuccess(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			appmetrics.SetBreakerState(name, from.String(), to.String(), breakerGauge(to))
			event := logging.Info()
			if to == gobreaker.StateOpen {
				event = logging.Warn()
			}
			event.Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Database circuit breaker changed state")
		},
	}

	appmetrics.SetBreakerState(name, "", gobreaker.StateClosed.String(), appmetrics.BreakerClosed)
	return gobreaker.NewCircuitBreaker[struct{}](settings)
}

// countsAsSuccess reports whether a failed record leaves the breaker
// untouched. Timeouts and rejected statements do.
func countsAsSuccess(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || !database.IsConnectionError(err)
}

func breakerGauge(s gobreaker.State) int {
	switch s {
	case gobreaker.StateOpen:
		return appmetrics.BreakerOpen
	case gobreaker.StateHalfOpen:
		return appmetrics.BreakerHalfOpen
	default:
		return appmetrics.BreakerClosed
	}
}
