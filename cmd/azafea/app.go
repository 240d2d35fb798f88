// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/tomtom215/azafea/internal/cli"
	"github.com/tomtom215/azafea/internal/config"
	"github.com/tomtom215/azafea/internal/database"
	"github.com/tomtom215/azafea/internal/logging"
	"github.com/tomtom215/azafea/internal/maintenance"
)

// app holds what the commands share: the global flags and the output
// streams.
type app struct {
	configPath string
	stdout     io.Writer
	stderr     io.Writer
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

// load reads and validates the configuration, then sets up logging from it.
func (a *app) load() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Level:     cfg.LogLevel(),
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    a.stderr,
	})
	return cfg, nil
}

// withDB loads the configuration and opens the database for fn. ctx is
// canceled on SIGINT or SIGTERM.
func (a *app) withDB(fn func(ctx context.Context, cfg *config.Config, db *database.DB) error) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, &cfg.PostgreSQL)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, cfg, db)
}

func (a *app) root() *cli.Command {
	return &cli.Command{
		Name:        "azafea",
		Summary:     "Process the metrics events pushed to Redis into PostgreSQL",
		Description: "Azafea pops event records from Redis queues, processes them with the\nhandler bound to each queue and stores the results in PostgreSQL.",
		Output:      a.stderr,
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("azafea", pflag.ContinueOnError)
			fs.SetInterspersed(false)
			fs.StringVarP(&a.configPath, "config", "c", "", "path to the YAML configuration file")
			return fs
		},
		Subcommands: []*cli.Command{
			a.runCommand(),
			a.printConfigCommand(),
			a.initdbCommand("initdb", "Create the tables, or upgrade them"),
			a.initdbCommand("migratedb", "Apply pending schema migrations"),
			a.replayErrorsCommand(),
			a.sweepCommand(maintenance.CommandNormalizeVendors,
				"Rewrite hardware vendors to their canonical name",
				(*maintenance.Engine).NormalizeVendors, true),
			a.sweepCommand(maintenance.CommandParseOldImages,
				"Fill in the parsed image columns of rows stored before they existed",
				(*maintenance.Engine).ParseOldImages, true),
			a.sweepCommand(maintenance.CommandTransformCountries,
				"Rewrite ISO 3166 alpha-3 country codes to alpha-2",
				(*maintenance.Engine).TransformCountriesAlpha3To2, false),
			a.sweepCommand(maintenance.CommandReplayInvalid,
				"Retry the metrics events stored as invalid",
				(*maintenance.Engine).ReplayInvalid, true),
			a.sweepCommand(maintenance.CommandReplayUnknown,
				"Retry the metrics events stored as unknown",
				(*maintenance.Engine).ReplayUnknown, true),
			a.dropdbCommand(),
		},
	}
}

// isSilent reports whether err is an exit code the command already
// explained.
func isSilent(err error) bool {
	var exit *cli.ExitError
	return errors.As(err, &exit)
}

func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.stdout, format, args...)
}
