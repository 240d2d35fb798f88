// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package events

import (
	"errors"
	"fmt"
)

// EmptyPayloadError is returned when an event that requires a payload was
// submitted without one.
type EmptyPayloadError struct {
	EventID   string
	Signature string
}

func (e *EmptyPayloadError) Error() string {
	return fmt.Sprintf("Metric event %s needs a %s payload, but got none", e.EventID, e.Signature)
}

// WrongPayloadError is returned when the payload signature does not match the
// one the event declares.
type WrongPayloadError struct {
	EventID   string
	Signature string
	Got       string
	GotType   string
}

func (e *WrongPayloadError) Error() string {
	return fmt.Sprintf("Metric event %s needs a %s payload, but got %s (%s)",
		e.EventID, e.Signature, e.Got, e.GotType)
}

// BuildError wraps a failure raised by an event's column builder after the
// payload signature was accepted.
type BuildError struct {
	EventID string
	Err     error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("Metric event %s has an invalid payload: %v", e.EventID, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// IsEmptyPayload reports whether err is an EmptyPayloadError.
func IsEmptyPayload(err error) bool {
	var empty *EmptyPayloadError
	return errors.As(err, &empty)
}
