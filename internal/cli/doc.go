// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

// Package cli is a small command tree on top of spf13/pflag.
//
// A Command either runs or dispatches to a subcommand picked by the first
// positional argument. Help is printed for -h, --help and help, and unknown
// commands or flags get a "did you mean" suggestion when a close match
// exists.
//
//	root := &cli.Command{
//		Name: "azafea",
//		Subcommands: []*cli.Command{
//			{Name: "run", Summary: "Run the workers", Run: run},
//		},
//	}
//	err := root.Execute(os.Args[1:])
//
// A Run function returning an *ExitError asks main to exit with that code
// without printing anything more.
package cli
