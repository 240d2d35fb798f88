// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/v2"
)

// envMappings maps lower-cased environment variable names to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Main
	"azafea_verbose":              "main.verbose",
	"azafea_number_of_workers":    "main.number_of_workers",
	"azafea_exit_on_empty_queues": "main.exit_on_empty_queues",

	// Redis
	"azafea_redis_host":        "redis.host",
	"azafea_redis_port":        "redis.port",
	"azafea_redis_password":    "redis.password",
	"azafea_redis_db":          "redis.db",
	"azafea_redis_pop_timeout": "redis.pop_timeout",

	// PostgreSQL
	"azafea_postgresql_host":            "postgresql.host",
	"azafea_postgresql_port":            "postgresql.port",
	"azafea_postgresql_user":            "postgresql.user",
	"azafea_postgresql_password":        "postgresql.password",
	"azafea_postgresql_database":        "postgresql.database",
	"azafea_postgresql_sslmode":         "postgresql.sslmode",
	"azafea_postgresql_connect_timeout": "postgresql.connect_timeout",
	"azafea_postgresql_max_conns":       "postgresql.max_conns",

	// Queues, as name=handler pairs
	"azafea_queues": "queues",

	// Logging
	"azafea_log_level":  "logging.level",
	"azafea_log_format": "logging.format",
	"azafea_log_caller": "logging.caller",

	// Metrics
	"azafea_metrics_textfile_path": "metrics.textfile_path",
	"azafea_metrics_interval":      "metrics.interval",

	// Breaker
	"azafea_breaker_failure_threshold": "breaker.failure_threshold",
	"azafea_breaker_open_timeout":      "breaker.open_timeout",

	// Supervisor
	"azafea_supervisor_failure_threshold": "supervisor.failure_threshold",
	"azafea_supervisor_failure_decay":     "supervisor.failure_decay",
	"azafea_supervisor_failure_backoff":   "supervisor.failure_backoff",
	"azafea_supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - AZAFEA_REDIS_HOST -> redis.host
//   - AZAFEA_NUMBER_OF_WORKERS -> main.number_of_workers
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// processQueueList converts a "name=handler,name=handler" string loaded from
// the environment into the list shape the YAML file uses.
func processQueueList(k *koanf.Koanf) error {
	raw, ok := k.Get("queues").(string)
	if !ok {
		return nil
	}

	queues, err := parseQueueList(raw)
	if err != nil {
		return err
	}

	list := make([]interface{}, len(queues))
	for i, q := range queues {
		list[i] = map[string]interface{}{"name": q.Name, "handler": q.Handler}
	}
	k.Delete("queues")
	return k.Set("queues", list)
}

func parseQueueList(raw string) ([]QueueConfig, error) {
	var queues []QueueConfig
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, handler, found := strings.Cut(item, "=")
		name, handler = strings.TrimSpace(name), strings.TrimSpace(handler)
		if !found || name == "" || handler == "" {
			return nil, fmt.Errorf("queue binding %q must be of the form name=handler", item)
		}
		queues = append(queues, QueueConfig{Name: name, Handler: handler})
	}
	return queues, nil
}
