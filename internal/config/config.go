// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
//
// Configuration is loaded in layers by Load():
//  1. Built-in defaults
//  2. Config file (config.yaml if present, or the path in CONFIG_PATH)
//  3. Environment variables
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Drova     DrovaConfig     `koanf:"drova"`
	Cache     CacheConfig     `koanf:"cache"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Refresh   RefreshConfig   `koanf:"refresh"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig points at the SQLite file holding station_changes and
// server_info. The file is read through an in-memory DuckDB instance.
type DatabaseConfig struct {
	Path         string        `koanf:"path"`
	Threads      int           `koanf:"threads"` // DuckDB threads (0 = use NumCPU)
	MaxMemory    string        `koanf:"max_memory"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// DrovaConfig holds the public Drova API endpoints used to refresh
// server_info and to resolve product titles.
//
// Environment Variables:
//   - DROVA_SERVER_URL: per-station server endpoint prefix
//   - DROVA_HARDWARE_URL: per-station hardware endpoint prefix
//   - PRODUCTS_URL: product catalog endpoint
//   - DROVA_TIMEOUT: HTTP timeout per request (default: 15s)
//   - DROVA_REQUESTS_PER_SECOND: client side rate limit (default: 5)
type DrovaConfig struct {
	ServerURL         string        `koanf:"server_url"`
	HardwareURL       string        `koanf:"hardware_url"`
	ProductsURL       string        `koanf:"products_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

// CacheConfig controls how long loaded datasets and catalog lookups are reused.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// DashboardConfig holds the defaults applied to dashboard queries that do
// not specify them.
type DashboardConfig struct {
	ThresholdHours      int `koanf:"threshold_hours"`
	WindowDays          int `koanf:"window_days"` // 0 = min(7, range days, 90)
	RangeDays           int `koanf:"range_days"`
	ShareTopN           int `koanf:"share_top_n"`
	AdoptionTopN        int `koanf:"adoption_top_n"`
	CannibalizationTopN int `koanf:"cannibalization_top_n"`
	LookbackDays        int `koanf:"lookback_days"`
}

// RefreshConfig controls the periodic server_info refresh.
type RefreshConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Interval     time.Duration `koanf:"interval"`
	RunOnStartup bool          `koanf:"run_on_startup"`
}

// SecurityConfig holds CORS and rate limit settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, the optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Address returns the listen address of the HTTP server.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
