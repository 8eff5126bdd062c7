// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/drova-dash/config.yaml",
	"/etc/drova-dash/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Public Drova API endpoints.
const (
	DefaultServerURL   = "https://services.drova.io/server-manager/servers/public/"
	DefaultHardwareURL = "https://services.drova.io/server-manager/hardware/list/"
	DefaultProductsURL = "https://services.drova.io/product-manager/product/listfull2"
)

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8501,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:         "/data/drova.db",
			Threads:      0,
			MaxMemory:    "1GB",
			QueryTimeout: 2 * time.Minute,
		},
		Drova: DrovaConfig{
			ServerURL:         DefaultServerURL,
			HardwareURL:       DefaultHardwareURL,
			ProductsURL:       DefaultProductsURL,
			Timeout:           15 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Cache: CacheConfig{
			TTL: 600 * time.Second,
		},
		Dashboard: DashboardConfig{
			ThresholdHours:      30,
			WindowDays:          0,
			RangeDays:           30,
			ShareTopN:           20,
			AdoptionTopN:        20,
			CannibalizationTopN: 15,
			LookbackDays:        7,
		},
		Refresh: RefreshConfig{
			Enabled:      false, // opt-in: the refresher calls the public Drova API
			Interval:     24 * time.Hour,
			RunOnStartup: false,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Database
	"db_path":              "database.path",
	"duckdb_threads":       "database.threads",
	"duckdb_max_memory":    "database.max_memory",
	"duckdb_query_timeout": "database.query_timeout",

	// Drova API
	"drova_server_url":          "drova.server_url",
	"drova_hardware_url":        "drova.hardware_url",
	"products_url":              "drova.products_url",
	"drova_timeout":             "drova.timeout",
	"drova_requests_per_second": "drova.requests_per_second",
	"drova_burst":               "drova.burst",

	// Cache
	"cache_ttl": "cache.ttl",

	// Dashboard defaults
	"dashboard_threshold_hours":       "dashboard.threshold_hours",
	"dashboard_window_days":           "dashboard.window_days",
	"dashboard_range_days":            "dashboard.range_days",
	"dashboard_share_top_n":           "dashboard.share_top_n",
	"dashboard_adoption_top_n":        "dashboard.adoption_top_n",
	"dashboard_cannibalization_top_n": "dashboard.cannibalization_top_n",
	"dashboard_lookback_days":         "dashboard.lookback_days",

	// Refresh
	"refresh_enabled":        "refresh.enabled",
	"refresh_interval":       "refresh.interval",
	"refresh_run_on_startup": "refresh.run_on_startup",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DB_PATH -> database.path
//   - PRODUCTS_URL -> drova.products_url
//   - HTTP_PORT -> server.port
//
// Unmapped variables return an empty key and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// ConfigFilePath returns the config file LoadWithKoanf would read, or an
// empty string when configuration comes from defaults and env only.
func ConfigFilePath() string {
	return findConfigFile()
}

// WatchConfigFile calls callback whenever the config file at path changes.
// The caller reloads with LoadWithKoanf and decides which settings can be
// applied at runtime; cmd/server only applies the log level.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
