// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Xerz/drova-dash/internal/api"
	"github.com/Xerz/drova-dash/internal/config"
	"github.com/Xerz/drova-dash/internal/dashboard"
	"github.com/Xerz/drova-dash/internal/database"
	"github.com/Xerz/drova-dash/internal/logging"
	"github.com/Xerz/drova-dash/internal/metrics"
	"github.com/Xerz/drova-dash/internal/supervisor"
	"github.com/Xerz/drova-dash/internal/supervisor/services"
	"github.com/Xerz/drova-dash/internal/sync"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// invalidatorFunc adapts a function to services.Invalidator.
type invalidatorFunc func()

func (f invalidatorFunc) Invalidate() { f() }

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("addr", cfg.Server.Address()).
		Bool("refresh_enabled", cfg.Refresh.Enabled).
		Msg("Starting Drova Dash")

	watchLogLevel()

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open station database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	client := sync.NewClient(&cfg.Drova)

	svc := dashboard.NewService(db, client, cfg.Dashboard, cfg.Cache.TTL)
	defer svc.Close()

	// The handler is created after the refresh service it reports on, so
	// invalidation goes through a closure.
	var handler *api.Handler
	opts := []api.HandlerOption{
		api.WithVersion(version),
		api.WithResultTTL(cfg.Cache.TTL),
	}

	var refreshSvc *services.RefreshService
	if cfg.Refresh.Enabled {
		refresher := sync.NewRefresher(db, client)
		refreshSvc = services.NewRefreshService(refresher,
			invalidatorFunc(func() { handler.Invalidate() }),
			services.RefreshServiceConfig{
				RunOnStartup: cfg.Refresh.RunOnStartup,
				Interval:     cfg.Refresh.Interval,
			})
		opts = append(opts, api.WithRefresh(refreshSvc))
	}

	handler = api.NewHandler(svc, db, opts...)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security))

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if refreshSvc != nil {
		tree.AddDataService(refreshSvc)
		logging.Info().
			Dur("interval", cfg.Refresh.Interval).
			Bool("run_on_startup", cfg.Refresh.RunOnStartup).
			Msg("Refresh service added to supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, u := range unstopped {
		logging.Warn().Str("service", u.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Drova Dash stopped")
}

// watchLogLevel applies log level changes from the config file at runtime.
// Other settings need a restart.
func watchLogLevel() {
	path := config.ConfigFilePath()
	if path == "" {
		return
	}

	err := config.WatchConfigFile(path, func() {
		cfg, err := config.LoadWithKoanf()
		if err != nil {
			logging.Warn().Err(err).Msg("Ignoring invalid config file change")
			return
		}
		if cfg.Logging.Level != logging.GetLevel().String() {
			logging.SetLevelString(cfg.Logging.Level)
			logging.Info().Str("level", cfg.Logging.Level).Msg("Log level changed")
		}
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch disabled")
	}
}
