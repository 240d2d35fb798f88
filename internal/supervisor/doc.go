// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

/*
Package supervisor provides process supervision for the pipeline using suture v4.

# Overview

Services are organized into two layers:

	RootSupervisor ("azafea")
	├── WorkersSupervisor ("workers")
	│   ├── worker-0
	│   ├── worker-1
	│   └── ...
	└── SupportSupervisor ("support")
	    └── metrics-textfile (if metrics.textfile_path is set)

A worker whose Serve returns an error, for example because Redis went away,
is restarted with backoff. A worker that finished on purpose, after a drain
or on an empty queue with main.exit_on_empty_queues, returns
suture.ErrDoNotRestart and is removed.

# Logging

Supervisor events go through thejerf/sutureslog, using a slog.Logger built
by logging.NewSlogLogger, so they land in the zerolog stream:

	logger := logging.NewSlogLogger("supervisor")
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.TreeConfigFrom(cfg.Supervisor))

# Shutdown

Cancelling the context passed to Serve stops every service. The shutdown
timeout must be larger than redis.pop_timeout, since a worker only notices
cancellation between pops.
*/
package supervisor
