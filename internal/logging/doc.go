// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

/*
Package logging provides the process-wide zerolog logger used by every Azafea
component.

# Quick Start

	logging.Init(logging.Config{Level: "info", Format: "json"})

	logging.Info().Int("workers", n).Msg("Controller starting")
	logging.Err(err).Str("queue", q).Msg("Record dead-lettered")

# Record Context

Workers attach a correlation ID and their identity to the context of each
record, so that every line logged while handling it can be grouped:

	ctx = logging.ContextWithRecord(ctx, logging.Record{Worker: 2, Queue: "metrics-3"})
	logging.Ctx(ctx).Debug().Msg("Inserted request")
	// {"level":"debug","worker":2,"queue":"metrics-3","correlation_id":"1f0c2e4a",...}

# Supervisor Integration

NewSlogLogger bridges zerolog into log/slog for sutureslog, so supervisor
events share the same output and format.
*/
package logging
