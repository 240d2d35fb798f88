// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package config

import (
	"runtime"
	"time"
)

// Config holds the whole Azafea configuration.
type Config struct {
	Main       MainConfig       `koanf:"main"`
	Redis      RedisConfig      `koanf:"redis"`
	PostgreSQL PostgreSQLConfig `koanf:"postgresql"`
	Queues     []QueueConfig    `koanf:"queues"`
	Logging    LoggingConfig    `koanf:"logging"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Breaker    BreakerConfig    `koanf:"breaker"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// MainConfig holds controller settings.
type MainConfig struct {
	// Verbose switches logging to debug level.
	Verbose bool `koanf:"verbose"`

	NumberOfWorkers int `koanf:"number_of_workers"`

	// ExitOnEmptyQueues makes workers stop once a pop times out. Used by
	// tests and one-shot runs.
	ExitOnEmptyQueues bool `koanf:"exit_on_empty_queues"`
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`

	// PopTimeout bounds each blocking pop so the drain flag is checked
	// regularly.
	PopTimeout time.Duration `koanf:"pop_timeout"`
}

// PostgreSQLConfig holds the database connection settings.
type PostgreSQLConfig struct {
	Host           string        `koanf:"host"`
	Port           int           `koanf:"port"`
	User           string        `koanf:"user"`
	Password       string        `koanf:"password"`
	Database       string        `koanf:"database"`
	SSLMode        string        `koanf:"sslmode"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`

	// MaxConns caps the pool of each worker.
	MaxConns int32 `koanf:"max_conns"`
}

// QueueConfig binds a Redis list to the handler that processes its records.
type QueueConfig struct {
	Name    string `koanf:"name"`
	Handler string `koanf:"handler"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MetricsConfig controls the Prometheus textfile exporter. An empty
// TextfilePath disables it.
type MetricsConfig struct {
	TextfilePath string        `koanf:"textfile_path"`
	Interval     time.Duration `koanf:"interval"`
}

// BreakerConfig tunes the per-worker database circuit breaker.
type BreakerConfig struct {
	FailureThreshold uint32        `koanf:"failure_threshold"`
	OpenTimeout      time.Duration `koanf:"open_timeout"`
}

// SupervisorConfig tunes the suture tree running the workers.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// defaultConfig returns the configuration used when nothing overrides it.
func defaultConfig() *Config {
	return &Config{
		Main: MainConfig{
			Verbose:           false,
			NumberOfWorkers:   runtime.NumCPU(),
			ExitOnEmptyQueues: false,
		},
		Redis: RedisConfig{
			Host:       "localhost",
			Port:       6379,
			Password:   "",
			DB:         0,
			PopTimeout: 5 * time.Second,
		},
		PostgreSQL: PostgreSQLConfig{
			Host:           "localhost",
			Port:           5432,
			User:           "azafea",
			Password:       "CHANGE ME!!",
			Database:       "azafea",
			SSLMode:        "prefer",
			ConnectTimeout: 10 * time.Second,
			MaxConns:       2,
		},
		Queues: []QueueConfig{},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Metrics: MetricsConfig{
			TextfilePath: "",
			Interval:     15 * time.Second,
		},
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  30 * time.Second,
		},
	}
}

// Default returns a copy of the built-in defaults.
func Default() *Config {
	return defaultConfig()
}

// QueueNames returns the configured queue names in priority order.
func (c *Config) QueueNames() []string {
	names := make([]string, len(c.Queues))
	for i, q := range c.Queues {
		names[i] = q.Name
	}
	return names
}

// Handler returns the handler name bound to queue.
func (c *Config) Handler(queue string) (string, bool) {
	for _, q := range c.Queues {
		if q.Name == queue {
			return q.Handler, true
		}
	}
	return "", false
}

// LogLevel returns the effective log level: debug when verbose.
func (c *Config) LogLevel() string {
	if c.Main.Verbose {
		return "debug"
	}
	return c.Logging.Level
}

const redactedPassword = "** hidden **"

// Redacted returns a copy with passwords masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.Queues = append([]QueueConfig(nil), c.Queues...)
	if out.Redis.Password != "" {
		out.Redis.Password = redactedPassword
	}
	if out.PostgreSQL.Password != "" {
		out.PostgreSQL.Password = redactedPassword
	}
	return &out
}
