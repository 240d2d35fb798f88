// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package database

import (
	"strings"
	"testing"

	"github.com/tomtom215/azafea/internal/models"
)

func TestMigrationsAreOrdered(t *testing.T) {
	seen := make(map[int]bool)
	prev := 0
	for _, m := range migrations() {
		if m.Version <= prev {
			t.Errorf("migration %s has version %d after %d", m.Name, m.Version, prev)
		}
		if seen[m.Version] {
			t.Errorf("duplicate migration version %d", m.Version)
		}
		seen[m.Version] = true
		prev = m.Version
		if len(m.Statements) == 0 {
			t.Errorf("migration %s has no statements", m.Name)
		}
	}
}

func TestMigrationsCreateCoreTables(t *testing.T) {
	var all strings.Builder
	for _, m := range migrations() {
		for _, stmt := range m.Statements {
			all.WriteString(stmt)
			all.WriteString("\n")
		}
	}
	ddl := all.String()

	for _, table := range coreTables {
		if !strings.Contains(ddl, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("no migration creates %s", table)
		}
	}
	for _, want := range []string{
		"UNIQUE (image_id, site, dual_boot, live)",
		"UNIQUE (sha512)",
		"UNIQUE (image, vendor, product, dualboot)",
		"latitude = floor(latitude) + 0.5",
		"longitude = floor(longitude) + 0.5",
	} {
		if !strings.Contains(ddl, want) {
			t.Errorf("migrations do not contain %q", want)
		}
	}
}

func TestStoredEventDDL(t *testing.T) {
	tests := []struct {
		name      string
		aggregate bool
		withError bool
		want      []string
		notWant   []string
	}{
		{"invalid singular", false, true, []string{"occured_at TIMESTAMPTZ", "error TEXT NOT NULL"}, []string{"period_start"}},
		{"unknown aggregate", true, false, []string{"period_start TEXT NOT NULL", "count BIGINT"}, []string{"occured_at", "error"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ddl := storedEventDDL("t", tt.aggregate, tt.withError)[0]
			for _, w := range tt.want {
				if !strings.Contains(ddl, w) {
					t.Errorf("DDL lacks %q:\n%s", w, ddl)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(ddl, w) {
					t.Errorf("DDL contains %q:\n%s", w, ddl)
				}
			}
			if !strings.Contains(ddl, "payload_data BYTEA NOT NULL") {
				t.Errorf("DDL lacks payload_data:\n%s", ddl)
			}
		})
	}
}

func TestEventTableDDL(t *testing.T) {
	spec := models.TableSpec{
		Name: "daily_app_usage",
		Columns: []models.Column{
			{Name: "channel_id", SQLType: "bigint", Index: true},
			{Name: "period_start", SQLType: "date", Index: true},
			{Name: "app_id", SQLType: "text", Index: true},
			{Name: "note", SQLType: "text", Nullable: true},
		},
		Checks: []string{"char_length(app_id) > 0"},
	}

	stmts := eventTableDDL(spec)
	if len(stmts) != 4 {
		t.Fatalf("len(stmts) = %d, want 4: %v", len(stmts), stmts)
	}

	create := stmts[0]
	for _, want := range []string{
		`CREATE TABLE IF NOT EXISTS "daily_app_usage"`,
		"id BIGSERIAL PRIMARY KEY",
		`"channel_id" BIGINT NOT NULL REFERENCES channel_v3 (id)`,
		`"period_start" DATE NOT NULL`,
		`"note" TEXT,`,
		"CHECK (char_length(app_id) > 0)",
	} {
		if !strings.Contains(create, want) {
			t.Errorf("CREATE lacks %q:\n%s", want, create)
		}
	}
	if strings.Contains(create, `"note" TEXT NOT NULL`) {
		t.Errorf("nullable column created NOT NULL:\n%s", create)
	}

	want := `CREATE INDEX IF NOT EXISTS "ix_daily_app_usage_app_id" ON "daily_app_usage" ("app_id")`
	if stmts[3] != want {
		t.Errorf("stmts[3] = %s\nwant       %s", stmts[3], want)
	}
}
