// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package events

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tomtom215/azafea/internal/gvariant"
	"github.com/tomtom215/azafea/internal/models"
)

// Kind distinguishes singular from aggregate events.
type Kind int

const (
	Singular Kind = iota
	Aggregate
)

func (k Kind) String() string {
	if k == Aggregate {
		return "aggregate"
	}
	return "singular"
}

// Builder extracts column values from a payload whose signature has already
// been checked against Spec.Payload.
type Builder func(payload gvariant.Value) (models.Fields, error)

// Spec describes one event type.
type Spec struct {
	// ID is the canonical lower-case event UUID.
	ID string

	// Name is a human readable name used in logs.
	Name string

	// Table receives typed rows of this event.
	Table string

	// Payload is the expected payload type, or nil when the event carries no
	// payload.
	Payload *gvariant.Type

	// Columns are the event specific columns written by Build.
	Columns []models.Column

	// Build is nil when Payload is nil.
	Build Builder

	kind Kind
}

// Kind reports whether the event is singular or aggregate.
func (s *Spec) Kind() Kind { return s.kind }

// Signature returns the payload signature, or "" for events without payload.
func (s *Spec) Signature() string {
	if s.Payload == nil {
		return ""
	}
	return s.Payload.String()
}

// TableSpec returns the full table definition: common columns followed by
// the event specific ones.
func (s *Spec) TableSpec() models.TableSpec {
	common := singularColumns
	if s.kind == Aggregate {
		common = aggregateColumns
	}
	cols := make([]models.Column, 0, len(common)+len(s.Columns))
	cols = append(cols, common...)
	cols = append(cols, s.Columns...)
	return models.TableSpec{Name: s.Table, Columns: cols}
}

var singularColumns = []models.Column{
	{Name: "channel_id", SQLType: "bigint", Index: true},
	{Name: "os_version", SQLType: "text"},
	{Name: "occured_at", SQLType: "timestamptz", Index: true},
}

var aggregateColumns = []models.Column{
	{Name: "channel_id", SQLType: "bigint", Index: true},
	{Name: "os_version", SQLType: "text"},
	{Name: "period_start", SQLType: "date", Index: true},
	{Name: "count", SQLType: "bigint"},
}

// Registry maps event UUIDs to specs.
type Registry struct {
	singular    map[string]*Spec
	aggregate   map[string]*Spec
	ignored     map[string]struct{}
	ignoreEmpty map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		singular:    make(map[string]*Spec),
		aggregate:   make(map[string]*Spec),
		ignored:     make(map[string]struct{}),
		ignoreEmpty: make(map[string]struct{}),
	}
}

// RegisterSingular adds singular event specs. It panics on malformed or
// duplicate specs since registration happens at startup from static data.
func (r *Registry) RegisterSingular(specs ...*Spec) *Registry {
	for _, s := range specs {
		r.register(r.singular, s, Singular)
	}
	return r
}

// RegisterAggregate adds aggregate event specs.
func (r *Registry) RegisterAggregate(specs ...*Spec) *Registry {
	for _, s := range specs {
		r.register(r.aggregate, s, Aggregate)
	}
	return r
}

func (r *Registry) register(into map[string]*Spec, s *Spec, kind Kind) {
	id := normalizeID(s.ID)
	if id == "" {
		panic(fmt.Sprintf("events: %s has an invalid UUID %q", s.Name, s.ID))
	}
	if _, dup := into[id]; dup {
		panic(fmt.Sprintf("events: duplicate %s event UUID %s", kind, id))
	}
	if (s.Payload == nil) != (s.Build == nil) {
		panic(fmt.Sprintf("events: %s must declare both a payload and a builder, or neither", s.Name))
	}
	s.ID = id
	s.kind = kind
	into[id] = s
}

// Ignore marks event UUIDs as ignored.
func (r *Registry) Ignore(ids ...string) *Registry {
	for _, id := range ids {
		r.ignored[mustNormalizeID(id)] = struct{}{}
	}
	return r
}

// IgnoreEmptyPayload marks event UUIDs whose missing payloads are dropped.
func (r *Registry) IgnoreEmptyPayload(ids ...string) *Registry {
	for _, id := range ids {
		r.ignoreEmpty[mustNormalizeID(id)] = struct{}{}
	}
	return r
}

// Singular returns the singular spec for id.
func (r *Registry) Singular(id string) (*Spec, bool) {
	s, ok := r.singular[strings.ToLower(id)]
	return s, ok
}

// Aggregate returns the aggregate spec for id.
func (r *Registry) Aggregate(id string) (*Spec, bool) {
	s, ok := r.aggregate[strings.ToLower(id)]
	return s, ok
}

// Lookup returns the definition of the given kind.
func (r *Registry) Lookup(kind Kind, id string) (*Spec, bool) {
	if kind == Aggregate {
		return r.Aggregate(id)
	}
	return r.Singular(id)
}

// IsIgnored reports whether events with id are dropped.
func (r *Registry) IsIgnored(id string) bool {
	_, ok := r.ignored[strings.ToLower(id)]
	return ok
}

// IsIgnoreEmpty reports whether a missing payload for id is dropped.
func (r *Registry) IsIgnoreEmpty(id string) bool {
	_, ok := r.ignoreEmpty[strings.ToLower(id)]
	return ok
}

// Specs returns every registered spec of the given kind, sorted by table.
func (r *Registry) Specs(kind Kind) []*Spec {
	src := r.singular
	if kind == Aggregate {
		src = r.aggregate
	}
	out := make([]*Spec, 0, len(src))
	for _, s := range src {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Table < out[j].Table })
	return out
}

// Tables returns the table definitions of every registered event.
func (r *Registry) Tables() []models.TableSpec {
	var tables []models.TableSpec
	for _, kind := range []Kind{Singular, Aggregate} {
		for _, s := range r.Specs(kind) {
			tables = append(tables, s.TableSpec())
		}
	}
	return tables
}

// Validate checks cross-set invariants: ignored events must not be
// registered, and ignore-empty events must be registered.
func (r *Registry) Validate() error {
	for id := range r.ignored {
		if _, ok := r.singular[id]; ok {
			return fmt.Errorf("event %s is both ignored and registered", id)
		}
		if _, ok := r.aggregate[id]; ok {
			return fmt.Errorf("event %s is both ignored and registered", id)
		}
	}
	for id := range r.ignoreEmpty {
		_, s := r.singular[id]
		_, a := r.aggregate[id]
		if !s && !a {
			return fmt.Errorf("event %s ignores empty payloads but is not registered", id)
		}
	}
	seen := make(map[string]string)
	for _, kind := range []Kind{Singular, Aggregate} {
		for _, s := range r.Specs(kind) {
			if other, dup := seen[s.Table]; dup {
				return fmt.Errorf("events %s and %s share table %s", other, s.ID, s.Table)
			}
			seen[s.Table] = s.ID
		}
	}
	return nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of all known event types.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry().
			RegisterSingular(singularEvents()...).
			RegisterAggregate(aggregateEvents()...).
			Ignore(ignoredEvents...).
			IgnoreEmptyPayload(ignoreEmptyEvents...)
		if err := defaultRegistry.Validate(); err != nil {
			panic(err)
		}
	})
	return defaultRegistry
}

func normalizeID(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return ""
	}
	return parsed.String()
}

func mustNormalizeID(id string) string {
	n := normalizeID(id)
	if n == "" {
		panic(fmt.Sprintf("events: invalid UUID %q", id))
	}
	return n
}
