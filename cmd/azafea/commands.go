// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/tomtom215/azafea/internal/cli"
	"github.com/tomtom215/azafea/internal/config"
	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/logging"
	"github.com/tomtom215/azafea/internal/maintenance"
	appmetrics "github.com/tomtom215/azafea/internal/metrics"
	"github.com/tomtom215/azafea/internal/processors/metrics/events"
	"github.com/tomtom215/azafea/internal/queue"
	"github.com/tomtom215/azafea/internal/worker"
)

func (a *app) runCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Summary: "Start the workers",
		Run: func(args []string) error {
			if err := noArgs("run", args); err != nil {
				return err
			}
			cfg, err := a.load()
			if err != nil {
				return err
			}

			controller, err := worker.NewController(cfg)
			if err != nil {
				return err
			}
			appmetrics.SetAppInfo(version)
			logging.Info().
				Str("version", version).
				Int("workers", cfg.Main.NumberOfWorkers).
				Strs("queues", cfg.QueueNames()).
				Msg("Starting Azafea")
			return controller.Run(context.Background())
		},
	}
}

func (a *app) printConfigCommand() *cli.Command {
	return &cli.Command{
		Name:    "print-config",
		Summary: "Print the effective configuration with passwords hidden",
		Run: func(args []string) error {
			if err := noArgs("print-config", args); err != nil {
				return err
			}
			cfg, err := a.load()
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(out)
			return err
		},
	}
}

func (a *app) initdbCommand(name, summary string) *cli.Command {
	return &cli.Command{
		Name:    name,
		Summary: summary,
		Run: func(args []string) error {
			if err := noArgs(name, args); err != nil {
				return err
			}
			return a.withDB(func(ctx context.Context, _ *config.Config, db *database.DB) error {
				if err := db.Migrate(ctx, events.Default().Tables()); err != nil {
					return err
				}
				schemaVersion, err := db.CurrentSchemaVersion(ctx)
				if err != nil {
					return err
				}
				a.printf("Database schema is at version %d\n", schemaVersion)
				return nil
			})
		},
	}
}

func (a *app) replayErrorsCommand() *cli.Command {
	return &cli.Command{
		Name:        "replay-errors",
		Summary:     "Move the dead letters of a queue back onto it",
		Usage:       "azafea replay-errors <queue>",
		Description: "Move every record of errors-<queue> back onto <queue>, oldest first,\nso the workers process them again.",
		Examples: []cli.Example{
			{Description: "Retry the failed metrics requests", Command: "azafea replay-errors metrics-3"},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("replay-errors takes exactly one queue name, got %d arguments", len(args))
			}
			name := args[0]

			cfg, err := a.load()
			if err != nil {
				return err
			}
			if _, ok := cfg.Handler(name); !ok {
				return fmt.Errorf("unknown queue %q, configured queues are %v", name, cfg.QueueNames())
			}

			q := queue.New(&cfg.Redis)
			defer q.Close()

			ctx := context.Background()
			moved, err := q.MoveAll(ctx, queue.DeadLetterName(name), name)
			logging.Info().Str("queue", name).Int64("moved", moved).Msg("Replayed dead letters")
			if err != nil {
				return err
			}
			a.printf("Moved %d records from %s to %s\n", moved, queue.DeadLetterName(name), name)
			return nil
		},
	}
}

type sweep func(*maintenance.Engine, context.Context) (*maintenance.Stats, error)

// sweepCommand wires a maintenance sweep, with a --chunk-size flag when the
// sweep works in chunks.
func (a *app) sweepCommand(name, summary string, run sweep, chunked bool) *cli.Command {
	var chunkSize int
	cmd := &cli.Command{
		Name:    name,
		Summary: summary,
		Run: func(args []string) error {
			if err := noArgs(name, args); err != nil {
				return err
			}
			return a.withDB(func(ctx context.Context, _ *config.Config, db *database.DB) error {
				stats, err := run(maintenance.New(db, events.Default(), chunkSize), ctx)
				if stats != nil {
					a.printf("%s: scanned %d of %d, changed %d, deleted %d, skipped %d in %s\n",
						name, stats.Scanned, stats.Total, stats.Changed, stats.Deleted, stats.Skipped, stats.Duration())
				}
				return err
			})
		},
	}
	if chunked {
		cmd.Flags = func() *pflag.FlagSet {
			fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
			fs.IntVar(&chunkSize, "chunk-size", database.DefaultChunkSize, "rows per transaction")
			return fs
		}
	}
	return cmd
}

func (a *app) dropdbCommand() *cli.Command {
	var yes bool
	return &cli.Command{
		Name:    "dropdb",
		Summary: "Drop every table, deleting all data",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("dropdb", pflag.ContinueOnError)
			fs.BoolVar(&yes, "yes", false, "confirm that all data should be deleted")
			return fs
		},
		Run: func(args []string) error {
			if err := noArgs("dropdb", args); err != nil {
				return err
			}
			if !yes {
				fmt.Fprintln(a.stderr, "dropdb deletes all data, run it again with --yes to confirm")
				return &cli.ExitError{Code: 2}
			}
			return a.withDB(func(ctx context.Context, _ *config.Config, db *database.DB) error {
				if err := db.DropAll(ctx, events.Default().Tables()); err != nil {
					return err
				}
				a.printf("All tables dropped\n")
				return nil
			})
		},
	}
}

func noArgs(name string, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%s takes no arguments, got %v", name, args)
	}
	return nil
}
