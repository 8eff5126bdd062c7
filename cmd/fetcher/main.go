// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

// Command fetcher refreshes the server_info table of a station database
// from the public Drova API and exits.
//
//	fetcher <db_path> [-verbose]
//
// Every station uuid found in station_state and station_changes is looked
// up; stations whose server endpoint fails are skipped. Drova endpoints and
// client limits come from the same configuration as the server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Xerz/drova-dash/internal/config"
	"github.com/Xerz/drova-dash/internal/database"
	"github.com/Xerz/drova-dash/internal/logging"
	"github.com/Xerz/drova-dash/internal/sync"
)

type options struct {
	dbPath  string
	verbose bool
}

// parseArgs accepts -verbose before or after the database path.
func parseArgs(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("fetcher", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.BoolVar(&opts.verbose, "verbose", false, "log every station")
	fs.Usage = func() {
		fmt.Fprintln(output, "usage: fetcher <db_path> [-verbose]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return opts, errors.New("missing database path")
	}
	opts.dbPath = rest[0]
	if err := fs.Parse(rest[1:]); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		logging.Error().Err(err).Msg("Server info refresh failed")
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cfg.Database.Path = opts.dbPath

	level := cfg.Logging.Level
	if opts.verbose {
		level = "debug"
	}
	logging.Init(logging.Config{
		Level:     level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithRunID(ctx, logging.GenerateRunID())

	refresher := sync.NewRefresher(db, sync.NewClient(&cfg.Drova))
	res, err := refresher.Run(ctx)
	if err != nil {
		return err
	}

	logging.Ctx(ctx).Info().
		Int("stations", res.Stations).
		Int("saved", res.Saved).
		Int("unavailable", res.Unavailable).
		Int("missing_uuid", res.MissingUUID).
		Dur("duration", res.Duration).
		Msg("Server info refreshed")
	return nil
}
