// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

/*
Package main is the entry point for the Drova Dash server.

Drova Dash serves usage analytics of Drova gaming stations from the SQLite
file the station logger writes: busy sessions are reconstructed from
station_changes, enriched with server_info and the product catalog, and
exposed as JSON metrics over HTTP.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("drova-dash")
	├── DataSupervisor ("data-layer")
	│   └── Refresh service (server_info refresh, optional)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, optional config.yaml and env
 2. Logging: zerolog with the configured level and format
 3. Database: in-memory DuckDB attached to the SQLite file
 4. Drova client: product catalog and per-station metadata
 5. Dashboard service: dataset cache and metric computation
 6. Refresh service: scheduled and on-demand server_info refresh
 7. HTTP server: Chi router with the dashboard API and /metrics

# Configuration

Common environment variables:

	DB_PATH                    SQLite file with station_changes (required)
	HTTP_PORT                  listen port (default 8501)
	CACHE_TTL                  dataset and result reuse, e.g. 5m
	REFRESH_ENABLED            run the server_info refresh in-process
	REFRESH_INTERVAL           schedule for the refresh, e.g. 6h
	LOG_LEVEL, LOG_FORMAT      zerolog settings

When a config file is used, changes to its log level are applied without a
restart.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
server with the configured shutdown timeout and waits for a running refresh
to observe cancellation.
*/
package main
