// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built on first use and shared by every
// processor. Besides the built-in tags it registers:
//
//   - country: an ISO 3166-1 alpha-2 or alpha-3 code
//   - halfint: a float of the form k + 0.5 for an integer k
//   - nonblank: a string that is not only whitespace
//
// Field names in errors are taken from the json tag, so messages name the
// keys of the payload that was received:
//
//	type activation struct {
//	    Vendor  string   `json:"vendor" validate:"required"`
//	    Country *string  `json:"country" validate:"omitempty,country"`
//	    Lat     *float64 `json:"latitude" validate:"omitempty,halfint"`
//	}
//
//	if err := validation.ValidateStruct(&a); err != nil {
//	    return fmt.Errorf("invalid activation: %w", err)
//	}
//
// ValidateStruct returns a *RequestValidationError listing every failed
// field, in struct order.
package validation
