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

	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/tomtom215/azafea/internal/config"
)

// DefaultRedisImage is the Redis image used by integration tests.
const DefaultRedisImage = "redis:7-alpine"

// RedisContainer is a running Redis server.
type RedisContainer struct {
	*tcredis.RedisContainer

	// Config connects to the container.
	Config config.RedisConfig
}

// NewRedisContainer starts an empty Redis server.
func NewRedisContainer(ctx context.Context) (*RedisContainer, error) {
	rc, err := tcredis.Run(ctx, DefaultRedisImage)
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}

	host, err := rc.Host(ctx)
	if err != nil {
		_ = rc.Terminate(ctx)
		return nil, fmt.Errorf("failed to get redis host: %w", err)
	}
	port, err := rc.MappedPort(ctx, "6379/tcp")
	if err != nil {
		_ = rc.Terminate(ctx)
		return nil, fmt.Errorf("failed to get redis port: %w", err)
	}

	return &RedisContainer{
		RedisContainer: rc,
		Config: config.RedisConfig{
			Host:       host,
			Port:       port.Int(),
			PopTimeout: time.Second,
		},
	}, nil
}
