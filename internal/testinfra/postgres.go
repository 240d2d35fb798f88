// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/tomtom215/azafea/internal/config"
)

const (
	// DefaultPostgresImage is the PostgreSQL image used by integration tests.
	DefaultPostgresImage = "postgres:16-alpine"

	postgresUser     = "azafea"
	postgresPassword = "azafea"
	postgresDatabase = "azafea"
)

// PostgresContainer is a running PostgreSQL server.
type PostgresContainer struct {
	*postgres.PostgresContainer

	// Config connects to the container.
	Config config.PostgreSQLConfig
}

// NewPostgresContainer starts a PostgreSQL server with an empty azafea
// database.
func NewPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	pg, err := postgres.Run(ctx, DefaultPostgresImage,
		postgres.WithDatabase(postgresDatabase),
		postgres.WithUsername(postgresUser),
		postgres.WithPassword(postgresPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pg.Host(ctx)
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, fmt.Errorf("failed to get postgres host: %w", err)
	}
	port, err := pg.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, fmt.Errorf("failed to get postgres port: %w", err)
	}

	return &PostgresContainer{
		PostgresContainer: pg,
		Config: config.PostgreSQLConfig{
			Host:           host,
			Port:           port.Int(),
			User:           postgresUser,
			Password:       postgresPassword,
			Database:       postgresDatabase,
			SSLMode:        "disable",
			ConnectTimeout: 10 * time.Second,
			MaxConns:       4,
		},
	}, nil
}

// Pool opens a connection pool for assertions on stored rows.
func (c *PostgresContainer) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, c.Config.DSN())
}
