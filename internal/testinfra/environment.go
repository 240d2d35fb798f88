// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

//go:build integration

package testinfra

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomtom215/azafea/internal/config"
)

// Environment is a PostgreSQL and a Redis server for one test.
type Environment struct {
	Postgres *PostgresContainer
	Redis    *RedisContainer

	// Pool reads the database for assertions.
	Pool *pgxpool.Pool
}

// StartEnvironment starts both servers and registers their cleanup on t.
// The test is skipped without Docker.
func StartEnvironment(t *testing.T) *Environment {
	t.Helper()
	SkipIfNoDocker(t)
	ctx := context.Background()

	pg, err := NewPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL: %v", err)
	}
	t.Cleanup(func() { CleanupContainer(t, context.Background(), pg) })

	rc, err := NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to start Redis: %v", err)
	}
	t.Cleanup(func() { CleanupContainer(t, context.Background(), rc) })

	pool, err := pg.Pool(ctx)
	if err != nil {
		t.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	t.Cleanup(pool.Close)

	return &Environment{Postgres: pg, Redis: rc, Pool: pool}
}

// Config returns a configuration for one worker that exits once its queues
// are empty.
func (e *Environment) Config(queues ...config.QueueConfig) *config.Config {
	cfg := config.Default()
	cfg.Main.NumberOfWorkers = 1
	cfg.Main.ExitOnEmptyQueues = true
	cfg.Redis = e.Redis.Config
	cfg.PostgreSQL = e.Postgres.Config
	cfg.Queues = queues
	return cfg
}

// Count returns the number of rows of table.
func (e *Environment) Count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := e.Pool.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
