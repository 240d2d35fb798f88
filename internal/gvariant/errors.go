// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package gvariant

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidType is returned when a type signature cannot be parsed.
	ErrInvalidType = errors.New("gvariant: invalid type signature")

	// ErrMalformed is returned when serialized data cannot be decoded against its type.
	ErrMalformed = errors.New("gvariant: malformed data")

	// ErrNotNormalForm is returned when data decodes but is not the canonical encoding.
	ErrNotNormalForm = errors.New("gvariant: data is not in normal form")

	// ErrTypeMismatch is returned by accessors when a value has an unexpected type.
	ErrTypeMismatch = errors.New("gvariant: type mismatch")
)

func malformed(t *Type, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformed, t, fmt.Sprintf(format, args...))
}
