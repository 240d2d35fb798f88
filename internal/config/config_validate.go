// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package config

import (
	"fmt"
	"strings"
	"time"
)

// DeadLetterPrefix prefixes the dead-letter list of every queue.
const DeadLetterPrefix = "errors-"

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true,
	"error": true, "fatal": true, "panic": true, "disabled": true,
}

// Validate checks the configuration for errors. Handler names are checked by
// the caller against the processor registry.
func (c *Config) Validate() error {
	if err := c.validateMain(); err != nil {
		return err
	}

	if err := c.validateRedis(); err != nil {
		return err
	}

	if err := c.validatePostgreSQL(); err != nil {
		return err
	}

	if err := c.validateQueues(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateMetrics(); err != nil {
		return err
	}

	return c.validateBreaker()
}

// ValidateHandlers checks that every queue is bound to a known handler.
func (c *Config) ValidateHandlers(known func(name string) bool) error {
	for _, q := range c.Queues {
		if !known(q.Handler) {
			return fmt.Errorf("queue %q uses unknown handler %q", q.Name, q.Handler)
		}
	}
	return nil
}

func (c *Config) validateMain() error {
	if c.Main.NumberOfWorkers < 1 {
		return fmt.Errorf("main.number_of_workers must be at least 1, got: %d", c.Main.NumberOfWorkers)
	}
	return nil
}

func (c *Config) validateRedis() error {
	if c.Redis.Host == "" {
		return fmt.Errorf("redis.host is required")
	}
	if err := validatePort(c.Redis.Port, "redis.port"); err != nil {
		return err
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must not be negative, got: %d", c.Redis.DB)
	}
	if c.Redis.PopTimeout < time.Second {
		return fmt.Errorf("redis.pop_timeout must be at least 1s, got: %s", c.Redis.PopTimeout)
	}
	return nil
}

func (c *Config) validatePostgreSQL() error {
	if c.PostgreSQL.Host == "" {
		return fmt.Errorf("postgresql.host is required")
	}
	if err := validatePort(c.PostgreSQL.Port, "postgresql.port"); err != nil {
		return err
	}
	if c.PostgreSQL.User == "" {
		return fmt.Errorf("postgresql.user is required")
	}
	if c.PostgreSQL.Database == "" {
		return fmt.Errorf("postgresql.database is required")
	}
	if c.PostgreSQL.MaxConns < 1 {
		return fmt.Errorf("postgresql.max_conns must be at least 1, got: %d", c.PostgreSQL.MaxConns)
	}
	return nil
}

func (c *Config) validateQueues() error {
	if len(c.Queues) == 0 {
		return fmt.Errorf("at least one queue must be configured")
	}

	seen := make(map[string]bool, len(c.Queues))
	for _, q := range c.Queues {
		if q.Name == "" {
			return fmt.Errorf("queue names must not be empty")
		}
		if strings.HasPrefix(q.Name, DeadLetterPrefix) {
			return fmt.Errorf("queue %q must not start with %q, that prefix is reserved for dead letters", q.Name, DeadLetterPrefix)
		}
		if q.Handler == "" {
			return fmt.Errorf("queue %q has no handler", q.Name)
		}
		if seen[q.Name] {
			return fmt.Errorf("queue %q is configured twice", q.Name)
		}
		seen[q.Name] = true
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got: %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.TextfilePath != "" && c.Metrics.Interval < time.Second {
		return fmt.Errorf("metrics.interval must be at least 1s, got: %s", c.Metrics.Interval)
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if c.Breaker.FailureThreshold < 1 {
		return fmt.Errorf("breaker.failure_threshold must be at least 1")
	}
	if c.Breaker.OpenTimeout <= 0 {
		return fmt.Errorf("breaker.open_timeout must be positive, got: %s", c.Breaker.OpenTimeout)
	}
	return nil
}
