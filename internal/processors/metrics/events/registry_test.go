// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package events

import (
	"strings"
	"testing"

	"github.com/tomtom215/azafea/internal/gvariant"
	"github.com/tomtom215/azafea/internal/models"
)

func TestDefaultRegistryIsValid(t *testing.T) {
	r := Default()
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if got := len(r.Specs(Singular)); got < 35 {
		t.Errorf("len(Specs(Singular)) = %d, want at least 35", got)
	}
	if got := len(r.Specs(Aggregate)); got < 3 {
		t.Errorf("len(Specs(Aggregate)) = %d, want at least 3", got)
	}
}

func TestDefaultRegistryLookups(t *testing.T) {
	r := Default()

	tests := []struct {
		name      string
		id        string
		singular  bool
		aggregate bool
		ignored   bool
	}{
		{"launched equivalent existing flatpak", "00d7bc1e-ec93-4c53-ae78-a6b40450be4a", true, false, false},
		{"upper case id", "00D7BC1E-EC93-4C53-AE78-A6B40450BE4A", true, false, false},
		{"daily app usage", "49d0451a-f706-4f50-81d2-70cc0ec923a4", false, true, false},
		{"legacy search event", "005096c4-9444-48c6-844b-6cb693c15235", false, false, true},
		{"never seen", "d3863909-8eff-43b6-9a33-ef7eda266195", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := r.Singular(tt.id); ok != tt.singular {
				t.Errorf("Singular(%s) found = %v, want %v", tt.id, ok, tt.singular)
			}
			if _, ok := r.Aggregate(tt.id); ok != tt.aggregate {
				t.Errorf("Aggregate(%s) found = %v, want %v", tt.id, ok, tt.aggregate)
			}
			if got := r.IsIgnored(tt.id); got != tt.ignored {
				t.Errorf("IsIgnored(%s) = %v, want %v", tt.id, got, tt.ignored)
			}
		})
	}
}

func TestIgnoreEmptyEventsAreRegistered(t *testing.T) {
	r := Default()
	for _, id := range ignoreEmptyEvents {
		if !r.IsIgnoreEmpty(id) {
			t.Errorf("IsIgnoreEmpty(%s) = false", id)
		}
		spec, ok := r.Singular(id)
		if !ok {
			t.Errorf("ignore-empty event %s is not a singular event", id)
			continue
		}
		if spec.Payload == nil {
			t.Errorf("ignore-empty event %s (%s) declares no payload", id, spec.Name)
		}
	}
}

func TestSpecTableSpec(t *testing.T) {
	r := Default()

	spec, _ := r.Singular("9af2cc74-d6dd-423f-ac44-600a6eee2d96")
	table := spec.TableSpec()
	if table.Name != "uptime" {
		t.Errorf("Name = %q, want uptime", table.Name)
	}
	want := []string{"channel_id", "os_version", "occured_at", "accumulated_uptime", "number_of_boots"}
	if len(table.Columns) != len(want) {
		t.Fatalf("len(Columns) = %d, want %d", len(table.Columns), len(want))
	}
	for i, name := range want {
		if table.Columns[i].Name != name {
			t.Errorf("Columns[%d] = %q, want %q", i, table.Columns[i].Name, name)
		}
	}

	agg, _ := r.Aggregate("a3826320-9192-446a-8886-d2129c0ce302")
	if _, ok := agg.TableSpec().Column("period_start"); !ok {
		t.Error("aggregate table has no period_start column")
	}
	if _, ok := agg.TableSpec().Column("occured_at"); ok {
		t.Error("aggregate table has an occured_at column")
	}
}

func TestRegistryTablesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, table := range Default().Tables() {
		if seen[table.Name] {
			t.Errorf("table %s declared twice", table.Name)
		}
		seen[table.Name] = true
		if !strings.HasPrefix(table.Columns[0].Name, "channel_id") {
			t.Errorf("table %s does not start with channel_id", table.Name)
		}
	}
}

func TestRegisterPanics(t *testing.T) {
	build := func(gvariant.Value) (models.Fields, error) { return nil, nil }

	tests := []struct {
		name  string
		specs []*Spec
	}{
		{"invalid uuid", []*Spec{{ID: "not-a-uuid", Name: "Bad", Table: "bad"}}},
		{"duplicate", []*Spec{
			{ID: "11111111-2222-3333-4444-555555555555", Name: "A", Table: "a"},
			{ID: "11111111-2222-3333-4444-555555555555", Name: "B", Table: "b"},
		}},
		{"payload without builder", []*Spec{
			{ID: "11111111-2222-3333-4444-555555555555", Name: "A", Table: "a", Payload: gvariant.TypeString},
		}},
		{"builder without payload", []*Spec{
			{ID: "11111111-2222-3333-4444-555555555555", Name: "A", Table: "a", Build: build},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("RegisterSingular did not panic")
				}
			}()
			NewRegistry().RegisterSingular(tt.specs...)
		})
	}
}

func TestValidate(t *testing.T) {
	const id = "11111111-2222-3333-4444-555555555555"

	tests := []struct {
		name    string
		reg     func() *Registry
		wantErr bool
	}{
		{
			name: "ignored and registered",
			reg: func() *Registry {
				return NewRegistry().RegisterSingular(&Spec{ID: id, Name: "A", Table: "a"}).Ignore(id)
			},
			wantErr: true,
		},
		{
			name:    "ignore empty but unregistered",
			reg:     func() *Registry { return NewRegistry().IgnoreEmptyPayload(id) },
			wantErr: true,
		},
		{
			name: "shared table",
			reg: func() *Registry {
				return NewRegistry().
					RegisterSingular(&Spec{ID: id, Name: "A", Table: "a"}).
					RegisterAggregate(&Spec{ID: "66666666-2222-3333-4444-555555555555", Name: "B", Table: "a"})
			},
			wantErr: true,
		},
		{
			name: "valid",
			reg: func() *Registry {
				return NewRegistry().
					RegisterSingular(&Spec{ID: id, Name: "A", Table: "a"}).
					Ignore("66666666-2222-3333-4444-555555555555")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg().Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if Singular.String() != "singular" || Aggregate.String() != "aggregate" {
		t.Errorf("Kind strings = %q, %q", Singular, Aggregate)
	}
}
