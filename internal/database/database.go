// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomtom215/azafea/internal/config"
	"github.com/tomtom215/azafea/internal/logging"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
	cfg  config.PostgreSQLConfig
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, cfg *config.PostgreSQLConfig) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL settings: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "azafea"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	db := &DB{pool: pool, cfg: *cfg}
	if err := db.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logging.Debug().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int32("max_conns", poolCfg.MaxConns).
		Msg("Connected to PostgreSQL")
	return db, nil
}

// Close releases every connection of the pool.
func (db *DB) Close() {
	if db != nil && db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the server is reachable within the connect timeout.
func (db *DB) Ping(ctx context.Context) error {
	timeout := db.cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach PostgreSQL at %s:%d: %w", db.cfg.Host, db.cfg.Port, err)
	}
	return nil
}

// Begin starts a transaction and returns it as a Session.
func (db *DB) Begin(ctx context.Context) (Session, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &txSession{tx: tx}, nil
}

// InTx runs fn in a transaction, committing on success and rolling back on
// error.
func (db *DB) InTx(ctx context.Context, fn func(ctx context.Context, s Session) error) error {
	sess, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(ctx, sess); err != nil {
		rollbackQuietly(ctx, sess)
		return err
	}
	return sess.Commit(ctx)
}

// exec runs a statement outside any Session.
func (db *DB) exec(ctx context.Context, sql string, args ...interface{}) error {
	_, err := db.pool.Exec(ctx, sql, args...)
	return err
}

// schemaContext bounds DDL statements.
func schemaContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 60*time.Second)
}
