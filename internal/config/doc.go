// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

/*
Package config provides configuration loading and validation for Drova Dash.

Configuration is layered with koanf:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (config.yaml, /etc/drova-dash/config.yaml or CONFIG_PATH)
 3. Environment variables (highest priority)

# Environment Variables

Database:
  - DB_PATH: SQLite file with station_changes and server_info (default: /data/drova.db)
  - DUCKDB_THREADS, DUCKDB_MAX_MEMORY, DUCKDB_QUERY_TIMEOUT: DuckDB tuning

Drova API:
  - DROVA_SERVER_URL, DROVA_HARDWARE_URL: per-station endpoint prefixes
  - PRODUCTS_URL: product catalog endpoint
  - DROVA_TIMEOUT, DROVA_REQUESTS_PER_SECOND, DROVA_BURST: client limits

Dashboard:
  - CACHE_TTL: dataset and catalog cache lifetime (default: 600s)
  - DASHBOARD_THRESHOLD_HOURS: default session threshold (default: 30)
  - DASHBOARD_WINDOW_DAYS: default rolling window, 0 derives it from the range
  - DASHBOARD_RANGE_DAYS: default date range ending today (default: 30)

Refresh:
  - REFRESH_ENABLED, REFRESH_INTERVAL, REFRESH_RUN_ON_STARTUP

HTTP Server:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - CORS_ORIGINS: comma-separated list (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: include caller file:line (default: false)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	srv := &http.Server{Addr: cfg.Server.Address()}
*/
package config
