// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package gvariant implements the GVariant binary serialization format used by
// Endless OS clients to submit metrics.
//
// The package is a pure codec. It parses a byte slice against a type
// signature into a tree of Value nodes, walks composite values by child
// index, reports the runtime signature of any value and serializes values
// back to their canonical byte form. It attaches no meaning to the data.
//
// # Normal Form
//
// GVariant permits several byte sequences to decode to the same value, for
// example by using oversized framing offsets or non-zero padding. Only the
// canonical encoding is accepted here: Parse re-serializes every decoded
// value and returns ErrNotNormalForm when the result differs from the input.
// Structural problems that prevent decoding at all are reported as
// ErrMalformed.
//
// # Quick Start
//
//	v, err := gvariant.Parse("(sas)", data)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(v.Type(), gvariant.Print(v))
//	// (sas) ('org.gnome.Maps', ['org.gnome.Maps.desktop'])
//
// # Value Types
//
// Every Value is one of the concrete types declared in value.go. Arrays and
// maybes carry their element type so that an empty array or a Nothing still
// reports a complete signature.
package gvariant
