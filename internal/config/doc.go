// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

/*
Package config loads and validates the Azafea configuration.

# Configuration Sources

Configuration is layered with Koanf v2, later layers overriding earlier ones:

 1. Defaults built into defaultConfig
 2. An optional YAML file
 3. Environment variables

The YAML file is taken from the --config flag, then AZAFEA_CONFIG, then the
first of DefaultConfigPaths that exists.

# Example File

	main:
	  verbose: false
	  number_of_workers: 4
	redis:
	  host: localhost
	  port: 6379
	postgresql:
	  host: localhost
	  user: azafea
	  password: CHANGE ME!!
	  database: azafea
	queues:
	  - name: metrics-3
	    handler: endless.metrics.v3
	  - name: ping-1
	    handler: endless.ping.v1

Queue order is significant: workers pop queues in the listed order, so
earlier queues take priority.

# Environment Variables

Only explicitly mapped variables are read, e.g. AZAFEA_REDIS_HOST,
AZAFEA_POSTGRESQL_PASSWORD or AZAFEA_NUMBER_OF_WORKERS. AZAFEA_QUEUES holds a
comma separated list of name=handler pairs:

	AZAFEA_QUEUES="metrics-3=endless.metrics.v3,ping-1=endless.ping.v1"

See envMappings for the full list.
*/
package config
