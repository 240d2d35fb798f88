// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package main is the azafea command.
//
// Azafea pops event records pushed to Redis lists by the collector, hands
// each record to the handler bound to its queue and stores the result in
// PostgreSQL. Records that fail are moved to an "errors-<queue>" list
// verbatim so they can be replayed once the cause is fixed.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (AZAFEA_*)
//   - Config file (--config, AZAFEA_CONFIG, config.yaml or /etc/azafea/config.yaml)
//   - Built-in defaults
//
// # Commands
//
//	azafea run                               start the workers
//	azafea print-config                      show the effective configuration
//	azafea initdb                            create or upgrade the tables
//	azafea replay-errors <queue>             move dead letters back onto <queue>
//	azafea normalize-vendors                 rewrite vendors to their canonical name
//	azafea parse-old-images                  fill in parsed image columns
//	azafea transform-countries-alpha-3-to-2  rewrite ISO alpha-3 country codes
//	azafea replay-invalid                    retry events stored as invalid
//	azafea replay-unknown                    retry events stored as unknown
//	azafea dropdb --yes                      drop every table
//
// # Signal Handling
//
// "run" drains on the first SIGINT or SIGTERM: every worker finishes the
// record it holds, then the process exits. A second signal terminates it.
// The maintenance commands stop after the chunk in progress.
package main

import (
	"fmt"
	"os"

	"github.com/tomtom215/azafea/internal/cli"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	a := newApp(os.Stdout, os.Stderr)
	err := a.root().Execute(os.Args[1:])
	if code := cli.ExitCodeOf(err); code != 0 {
		if !isSilent(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(code)
	}
}
