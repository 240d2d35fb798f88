// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package metrics

import (
	"sort"

	"github.com/google/uuid"

	"github.com/tomtom215/azafea/internal/gvariant"
)

var (
	singularType  = gvariant.MustParseType("(aysxmv)")
	aggregateType = gvariant.MustParseType("(ayssumv)")
)

// SingularEvent is one singular event of an Envelope. A nil Payload is sent
// as nothing.
type SingularEvent struct {
	ID        uuid.UUID
	OSVersion string
	Relative  int64
	Payload   gvariant.Value
}

// AggregateEvent is one aggregate event of an Envelope.
type AggregateEvent struct {
	ID          uuid.UUID
	OSVersion   string
	PeriodStart string
	Count       uint32
	Payload     gvariant.Value
}

// Envelope is the client side view of a metrics-v3 request, used to build
// request bodies.
type Envelope struct {
	Relative   int64
	Absolute   int64
	ImageID    string
	Site       map[string]string
	Flags      byte
	Singulars  []SingularEvent
	Aggregates []AggregateEvent
}

// Value returns the envelope as a GVariant of EnvelopeSignature.
func (e Envelope) Value() gvariant.Value {
	keys := make([]string, 0, len(e.Site))
	for k := range e.Site {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	site := make([]gvariant.DictEntry, len(keys))
	for i, k := range keys {
		site[i] = gvariant.DictEntry{Key: gvariant.String(k), Value: gvariant.String(e.Site[k])}
	}

	singulars := make([]gvariant.Value, len(e.Singulars))
	for i, s := range e.Singulars {
		singulars[i] = gvariant.Tuple{
			gvariant.Bytes(s.ID[:]),
			gvariant.String(s.OSVersion),
			gvariant.Int64(s.Relative),
			maybeVariant(s.Payload),
		}
	}
	aggregates := make([]gvariant.Value, len(e.Aggregates))
	for i, a := range e.Aggregates {
		aggregates[i] = gvariant.Tuple{
			gvariant.Bytes(a.ID[:]),
			gvariant.String(a.OSVersion),
			gvariant.String(a.PeriodStart),
			gvariant.Uint32(a.Count),
			maybeVariant(a.Payload),
		}
	}

	return gvariant.Tuple{
		gvariant.Int64(e.Relative),
		gvariant.Int64(e.Absolute),
		gvariant.String(e.ImageID),
		gvariant.Dict(gvariant.TypeString, gvariant.TypeString, site...),
		gvariant.Byte(e.Flags),
		gvariant.NewArray(singularType, singulars...),
		gvariant.NewArray(aggregateType, aggregates...),
	}
}

// Body serializes the envelope.
func (e Envelope) Body() []byte {
	return gvariant.Marshal(e.Value())
}

func maybeVariant(v gvariant.Value) gvariant.Maybe {
	if v == nil {
		return gvariant.Nothing(gvariant.TypeVariant)
	}
	return gvariant.Just(gvariant.Variant{Value: v})
}
