// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/azafea/internal/logging"
	"github.com/tomtom215/azafea/internal/models"
)

// coreTables lists the migrated tables, children first.
var coreTables = []string{
	models.TableInvalidSingular,
	models.TableUnknownSingular,
	models.TableInvalidAggregate,
	models.TableUnknownAggregate,
	models.TableRequest,
	models.TablePing,
	models.TablePingConfiguration,
	models.TableActivation,
	models.TableChannel,
}

// Migrate brings the schema up to date: pending core migrations first, then
// one table per event definition. It is safe to run repeatedly.
func (db *DB) Migrate(ctx context.Context, tables []models.TableSpec) error {
	ctx, cancel := schemaContext(ctx)
	defer cancel()

	applied, err := db.runVersionedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, t := range tables {
		for _, stmt := range eventTableDDL(t) {
			if err := db.exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to create event table %s: %w", t.Name, err)
			}
		}
	}

	logging.Info().
		Int("migrations_applied", applied).
		Int("event_tables", len(tables)).
		Msg("Database schema is up to date")
	return nil
}

// DropAll drops every event table, every core table and the migration
// history.
func (db *DB) DropAll(ctx context.Context, tables []models.TableSpec) error {
	ctx, cancel := schemaContext(ctx)
	defer cancel()

	names := make([]string, 0, len(tables)+len(coreTables)+1)
	for _, t := range tables {
		names = append(names, t.Name)
	}
	names = append(names, coreTables...)
	names = append(names, "schema_migrations")

	for _, name := range names {
		if err := db.exec(ctx, "DROP TABLE IF EXISTS "+quote(name)+" CASCADE"); err != nil {
			return fmt.Errorf("failed to drop %s: %w", name, err)
		}
	}
	logging.Warn().Int("tables", len(names)).Msg("Dropped all tables")
	return nil
}

// eventTableDDL renders the CREATE TABLE and CREATE INDEX statements of an
// event table. channel_id always references channel_v3.
func eventTableDDL(t models.TableSpec) []string {
	table := quote(t.Name)

	defs := []string{"id BIGSERIAL PRIMARY KEY"}
	for _, c := range t.Columns {
		def := quote(c.Name) + " " + strings.ToUpper(c.SQLType)
		if !c.Nullable {
			def += " NOT NULL"
		}
		if c.Name == "channel_id" {
			def += " REFERENCES " + models.TableChannel + " (id)"
		}
		defs = append(defs, def)
	}
	for _, check := range t.Checks {
		defs = append(defs, "CHECK ("+check+")")
	}

	stmts := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(defs, ",\n\t")),
	}
	for _, c := range t.Columns {
		if !c.Index {
			continue
		}
		index := quote("ix_" + t.Name + "_" + c.Name)
		stmts = append(stmts, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", index, table, quote(c.Name)))
	}
	return stmts
}
