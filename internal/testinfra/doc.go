// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package testinfra starts the PostgreSQL and Redis containers used by
// integration tests.
//
// The helpers are only built with the integration tag:
//
//	go test -tags integration ./...
//
// A typical test starts both servers and derives a configuration from them:
//
//	func TestPipeline(t *testing.T) {
//	    env := testinfra.StartEnvironment(t)
//	    cfg := env.Config(config.QueueConfig{Name: "q_act", Handler: "endless.activation.v1"})
//	    // run workers against cfg, then query env.Pool
//	}
//
// # CI Considerations
//
// These tests require Docker. They are skipped when the Docker daemon is not
// reachable. The first run downloads the images; later runs use the cache.
package testinfra
