// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package database

import (
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/azafea/internal/imageid"
	"github.com/tomtom215/azafea/internal/models"
)

func TestInsertSQL(t *testing.T) {
	row := models.Row{Table: "uptime", Fields: models.Fields{
		{Name: "channel_id", Value: int64(4)},
		{Name: "os_version", Value: "3.9.0"},
		{Name: "accumulated_uptime", Value: int64(1200)},
	}}

	sql, args, err := insertSQL(row)
	if err != nil {
		t.Fatalf("insertSQL() error = %v", err)
	}
	want := `INSERT INTO "uptime" ("channel_id", "os_version", "accumulated_uptime") VALUES ($1, $2, $3)`
	if sql != want {
		t.Errorf("sql = %s\nwant  %s", sql, want)
	}
	if len(args) != 3 || args[1] != "3.9.0" {
		t.Errorf("args = %v", args)
	}
}

func TestInsertSQLErrors(t *testing.T) {
	tests := []struct {
		name string
		row  models.Row
	}{
		{"no table", models.Row{Fields: models.Fields{{Name: "a", Value: 1}}}},
		{"no fields", models.Row{Table: "uptime"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := insertSQL(tt.row); err == nil {
				t.Error("insertSQL() error = nil")
			}
		})
	}
}

func TestQuoteEscapes(t *testing.T) {
	if got := quote(`we"ird`); got != `"we""ird"` {
		t.Errorf("quote() = %s", got)
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		from, n int
		want    string
	}{
		{1, 0, ""},
		{1, 1, "$1"},
		{3, 3, "$3, $4, $5"},
	}
	for _, tt := range tests {
		if got := placeholders(tt.from, tt.n); got != tt.want {
			t.Errorf("placeholders(%d, %d) = %q, want %q", tt.from, tt.n, got, tt.want)
		}
	}
}

func TestUpdateImageSQL(t *testing.T) {
	img, err := imageid.Parse("eos-eos3.7-amd64-amd64.190419-225606.base")
	if err != nil {
		t.Fatal(err)
	}

	sql, args := updateImageSQL(models.TableActivation, 12, img)
	if !strings.HasPrefix(sql, `UPDATE "activation_v1" SET image_product = $1,`) {
		t.Errorf("sql = %s", sql)
	}
	if !strings.HasSuffix(sql, "WHERE id = $7") {
		t.Errorf("sql = %s", sql)
	}
	if len(args) != 7 || args[0] != "eos" || args[6] != int64(12) {
		t.Errorf("args = %v", args)
	}
	if ts, ok := args[4].(time.Time); !ok || ts.Year() != 2019 {
		t.Errorf("image_timestamp arg = %v", args[4])
	}
}

func TestChunkQuerySQL(t *testing.T) {
	q := ChunkQuery[int64]{
		Table:   "activation_v1",
		Columns: []string{"id", "image"},
		Where:   "image_product IS NULL AND image <> $1",
		Args:    []interface{}{"unknown"},
		Size:    100,
	}

	tests := []struct {
		name     string
		reverse  bool
		last     int64
		hasLast  bool
		wantSQL  string
		wantArgs int
	}{
		{
			name:     "first forward chunk",
			wantSQL:  `SELECT "id", "image" FROM "activation_v1" WHERE (image_product IS NULL AND image <> $1) ORDER BY id LIMIT 100`,
			wantArgs: 1,
		},
		{
			name:     "next forward chunk",
			last:     42,
			hasLast:  true,
			wantSQL:  `SELECT "id", "image" FROM "activation_v1" WHERE (image_product IS NULL AND image <> $1) AND id > $2 ORDER BY id LIMIT 100`,
			wantArgs: 2,
		},
		{
			name:     "next reverse chunk",
			reverse:  true,
			last:     42,
			hasLast:  true,
			wantSQL:  `SELECT "id", "image" FROM "activation_v1" WHERE (image_product IS NULL AND image <> $1) AND id < $2 ORDER BY id DESC LIMIT 100`,
			wantArgs: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q.Reverse = tt.reverse
			sql, args := q.sql(tt.last, tt.hasLast)
			if sql != tt.wantSQL {
				t.Errorf("sql = %s\nwant  %s", sql, tt.wantSQL)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("len(args) = %d, want %d", len(args), tt.wantArgs)
			}
		})
	}

	if len(q.Args) != 1 {
		t.Errorf("sql() mutated Args: %v", q.Args)
	}
}

func TestChunkQueryDefaults(t *testing.T) {
	q := ChunkQuery[int64]{Table: "ping_v1", Columns: []string{"id"}}
	sql, args := q.sql(0, false)
	if sql != `SELECT "id" FROM "ping_v1" ORDER BY id LIMIT 5000` {
		t.Errorf("sql = %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v", args)
	}
}

func TestChunkQueryValidate(t *testing.T) {
	scan := func(pgx.Rows) (int64, error) { return 0, nil }
	id := func(v int64) int64 { return v }

	tests := []struct {
		name    string
		q       ChunkQuery[int64]
		wantErr bool
	}{
		{"valid", ChunkQuery[int64]{Table: "t", Columns: []string{"id"}, Scan: scan, ID: id}, false},
		{"no table", ChunkQuery[int64]{Columns: []string{"id"}, Scan: scan, ID: id}, true},
		{"id not first", ChunkQuery[int64]{Table: "t", Columns: []string{"vendor", "id"}, Scan: scan, ID: id}, true},
		{"no scan", ChunkQuery[int64]{Table: "t", Columns: []string{"id"}, ID: id}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.q.validate(); (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
