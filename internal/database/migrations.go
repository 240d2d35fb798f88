// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/azafea/internal/logging"
	"github.com/tomtom215/azafea/internal/models"
)

// Migration is a versioned change to the core schema.
type Migration struct {
	Version     int
	Name        string
	Description string
	Statements  []string
	AppliedAt   time.Time // populated on query
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// imageColumnsDDL declares the parsed image columns shared by channel,
// ping configuration and activation.
const imageColumnsDDL = `
	image_product TEXT,
	image_branch TEXT,
	image_arch TEXT,
	image_platform TEXT,
	image_timestamp TIMESTAMPTZ,
	image_personality TEXT`

// migrations returns every core migration in order. Migrations are
// append-only: never edit or remove one that has shipped.
func migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Name:        "create_channel",
			Description: "Channel identities with parsed image columns",
			Statements: []string{
				`CREATE TABLE IF NOT EXISTS ` + models.TableChannel + ` (
	id BIGSERIAL PRIMARY KEY,
	image_id TEXT NOT NULL,
	site JSONB NOT NULL,
	dual_boot BOOLEAN NOT NULL,
	live BOOLEAN NOT NULL,` + imageColumnsDDL + `,
	CONSTRAINT channel_v3_identity UNIQUE (image_id, site, dual_boot, live)
)`,
				`CREATE INDEX IF NOT EXISTS ix_channel_v3_image_product ON ` + models.TableChannel + ` (image_product)`,
			},
		},
		{
			Version:     2,
			Name:        "create_request",
			Description: "Accepted submissions, unique by body fingerprint",
			Statements: []string{
				`CREATE TABLE IF NOT EXISTS ` + models.TableRequest + ` (
	id BIGSERIAL PRIMARY KEY,
	sha512 TEXT NOT NULL,
	received_at TIMESTAMPTZ NOT NULL,
	absolute_timestamp BIGINT NOT NULL,
	relative_timestamp BIGINT NOT NULL,
	channel_id BIGINT NOT NULL REFERENCES ` + models.TableChannel + ` (id),
	CONSTRAINT request_v3_sha512 UNIQUE (sha512)
)`,
				`CREATE INDEX IF NOT EXISTS ix_request_v3_channel_id ON ` + models.TableRequest + ` (channel_id)`,
				`CREATE INDEX IF NOT EXISTS ix_request_v3_received_at ON ` + models.TableRequest + ` (received_at)`,
			},
		},
		{
			Version:     3,
			Name:        "create_invalid_unknown_events",
			Description: "Raw storage for events that could not be typed",
			Statements:  storedEventTablesDDL(),
		},
		{
			Version:     4,
			Name:        "create_ping",
			Description: "Ping configurations and pings",
			Statements: []string{
				`CREATE TABLE IF NOT EXISTS ` + models.TablePingConfiguration + ` (
	id BIGSERIAL PRIMARY KEY,
	image TEXT NOT NULL,
	vendor TEXT NOT NULL,
	product TEXT NOT NULL,
	dualboot BOOLEAN NOT NULL,` + imageColumnsDDL + `,
	CONSTRAINT ping_configuration_v1_identity UNIQUE (image, vendor, product, dualboot)
)`,
				`CREATE TABLE IF NOT EXISTS ` + models.TablePing + ` (
	id BIGSERIAL PRIMARY KEY,
	config_id BIGINT NOT NULL REFERENCES ` + models.TablePingConfiguration + ` (id),
	release TEXT NOT NULL,
	count BIGINT NOT NULL CHECK (count >= 0),
	country TEXT,
	metrics_enabled BOOLEAN,
	metrics_environment TEXT,
	created_at TIMESTAMPTZ NOT NULL
)`,
				`CREATE INDEX IF NOT EXISTS ix_ping_v1_config_id ON ` + models.TablePing + ` (config_id)`,
				`CREATE INDEX IF NOT EXISTS ix_ping_v1_created_at ON ` + models.TablePing + ` (created_at)`,
				`CREATE INDEX IF NOT EXISTS ix_ping_v1_country ON ` + models.TablePing + ` (country)`,
			},
		},
		{
			Version:     5,
			Name:        "create_activation",
			Description: "First boot activations",
			Statements: []string{
				// Both coordinates use the half-integer rule.
				`CREATE TABLE IF NOT EXISTS ` + models.TableActivation + ` (
	id BIGSERIAL PRIMARY KEY,
	image TEXT NOT NULL,
	vendor TEXT NOT NULL,
	product TEXT NOT NULL,
	release TEXT NOT NULL,
	serial TEXT,
	dualboot BOOLEAN,
	mac_hash BIGINT,
	country TEXT,
	region TEXT,
	city TEXT,
	latitude DOUBLE PRECISION CHECK (latitude IS NULL OR latitude = floor(latitude) + 0.5),
	longitude DOUBLE PRECISION CHECK (longitude IS NULL OR longitude = floor(longitude) + 0.5),
	created_at TIMESTAMPTZ NOT NULL,` + imageColumnsDDL + `
)`,
				`CREATE INDEX IF NOT EXISTS ix_activation_v1_created_at ON ` + models.TableActivation + ` (created_at)`,
				`CREATE INDEX IF NOT EXISTS ix_activation_v1_country ON ` + models.TableActivation + ` (country)`,
				`CREATE INDEX IF NOT EXISTS ix_activation_v1_image_product ON ` + models.TableActivation + ` (image_product)`,
			},
		},
	}
}

func storedEventTablesDDL() []string {
	var stmts []string
	stmts = append(stmts, storedEventDDL(models.TableInvalidSingular, false, true)...)
	stmts = append(stmts, storedEventDDL(models.TableUnknownSingular, false, false)...)
	stmts = append(stmts, storedEventDDL(models.TableInvalidAggregate, true, true)...)
	stmts = append(stmts, storedEventDDL(models.TableUnknownAggregate, true, false)...)
	return stmts
}

func storedEventDDL(table string, aggregate, withError bool) []string {
	ddl := `CREATE TABLE IF NOT EXISTS ` + table + ` (
	id BIGSERIAL PRIMARY KEY,
	channel_id BIGINT NOT NULL REFERENCES ` + models.TableChannel + ` (id),
	os_version TEXT NOT NULL,`
	if aggregate {
		ddl += `
	period_start TEXT NOT NULL,
	count BIGINT NOT NULL,`
	} else {
		ddl += `
	occured_at TIMESTAMPTZ NOT NULL,`
	}
	ddl += `
	event_id UUID NOT NULL,
	payload_data BYTEA NOT NULL`
	if withError {
		ddl += `,
	error TEXT NOT NULL`
	}
	ddl += `
)`

	return []string{
		ddl,
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS ix_%s_event_id ON %s (event_id)`, table, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS ix_%s_channel_id ON %s (channel_id)`, table, table),
	}
}

func (db *DB) createMigrationsTable(ctx context.Context) error {
	return db.exec(ctx, schemaMigrationsTable)
}

func (db *DB) getAppliedMigrations(ctx context.Context) (map[int]Migration, error) {
	history, err := db.MigrationHistory(ctx)
	if err != nil {
		return nil, err
	}
	applied := make(map[int]Migration, len(history))
	for _, m := range history {
		applied[m.Version] = m
	}
	return applied, nil
}

// runVersionedMigrations applies the migrations not yet recorded, each in
// its own transaction together with its schema_migrations row.
func (db *DB) runVersionedMigrations(ctx context.Context) (int, error) {
	if err := db.createMigrationsTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}
	applied, err := db.getAppliedMigrations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	count := 0
	for _, m := range migrations() {
		if _, done := applied[m.Version]; done {
			continue
		}

		err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
			for _, stmt := range m.Statements {
				if _, err := tx.Exec(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name, description) VALUES ($1, $2, $3)`,
				m.Version, m.Name, m.Description)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("failed to apply migration v%d (%s): %w", m.Version, m.Name, err)
		}

		logging.Info().Int("version", m.Version).Str("name", m.Name).Msg("Applied migration")
		count++
	}
	return count, nil
}

// CurrentSchemaVersion returns the highest applied migration version, or 0
// on an empty database.
func (db *DB) CurrentSchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := db.pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if IsUndefinedTable(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// MigrationHistory returns all applied migrations in order.
func (db *DB) MigrationHistory(ctx context.Context) ([]Migration, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT version, name, COALESCE(description, ''), applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}
	defer rows.Close()

	var history []Migration
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.Description, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration: %w", err)
		}
		history = append(history, m)
	}
	return history, rows.Err()
}
