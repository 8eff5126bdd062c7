// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearConfigEnv unsets every mapped variable for the duration of the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{ConfigPathEnvVar}
	for k := range envMappings {
		keys = append(keys, strings.ToUpper(k))
	}
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Database.Path != "/data/drova.db" {
		t.Errorf("Database.Path = %q, want /data/drova.db", cfg.Database.Path)
	}
	if cfg.Drova.ServerURL != DefaultServerURL {
		t.Errorf("Drova.ServerURL = %q, want %q", cfg.Drova.ServerURL, DefaultServerURL)
	}
	if cfg.Drova.ProductsURL != DefaultProductsURL {
		t.Errorf("Drova.ProductsURL = %q, want %q", cfg.Drova.ProductsURL, DefaultProductsURL)
	}
	if cfg.Cache.TTL != 600*time.Second {
		t.Errorf("Cache.TTL = %v, want 10m", cfg.Cache.TTL)
	}
	if cfg.Dashboard.ThresholdHours != 30 {
		t.Errorf("Dashboard.ThresholdHours = %d, want 30", cfg.Dashboard.ThresholdHours)
	}
	if cfg.Dashboard.WindowDays != 0 {
		t.Errorf("Dashboard.WindowDays = %d, want 0", cfg.Dashboard.WindowDays)
	}
	if cfg.Dashboard.CannibalizationTopN != 15 {
		t.Errorf("Dashboard.CannibalizationTopN = %d, want 15", cfg.Dashboard.CannibalizationTopN)
	}
	if cfg.Refresh.Enabled {
		t.Error("Refresh.Enabled should be false by default")
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() = %v, want nil", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DB_PATH", "database.path"},
		{"PRODUCTS_URL", "drova.products_url"},
		{"CACHE_TTL", "cache.ttl"},
		{"DROVA_SERVER_URL", "drova.server_url"},
		{"DROVA_REQUESTS_PER_SECOND", "drova.requests_per_second"},
		{"HTTP_PORT", "server.port"},
		{"DASHBOARD_WINDOW_DAYS", "dashboard.window_days"},
		{"REFRESH_ENABLED", "refresh.enabled"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},

		// Unmapped variables are skipped
		{"PATH", ""},
		{"HOME", ""},
		{"RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := envTransformFunc(tt.input); result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	clearConfigEnv(t)
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("cache:\n  ttl: 1m\n"), 0o644); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		if result := findConfigFile(); result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(customPath, []byte("cache:\n  ttl: 1m\n"), 0o644); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, customPath)

		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")

		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

// TestLoadWithKoanfEnvVars tests loading configuration from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	clearConfigEnv(t)
	t.Chdir(t.TempDir())

	t.Setenv("DB_PATH", "/tmp/stations.db")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("PRODUCTS_URL", "http://catalog.local/products")
	t.Setenv("DROVA_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("DASHBOARD_THRESHOLD_HOURS", "12")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/stations.db" {
		t.Errorf("Database.Path = %q, want /tmp/stations.db", cfg.Database.Path)
	}
	if cfg.Cache.TTL != 2*time.Minute {
		t.Errorf("Cache.TTL = %v, want 2m", cfg.Cache.TTL)
	}
	if cfg.Drova.ProductsURL != "http://catalog.local/products" {
		t.Errorf("Drova.ProductsURL = %q", cfg.Drova.ProductsURL)
	}
	if cfg.Drova.RequestsPerSecond != 2.5 {
		t.Errorf("Drova.RequestsPerSecond = %v, want 2.5", cfg.Drova.RequestsPerSecond)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Dashboard.ThresholdHours != 12 {
		t.Errorf("Dashboard.ThresholdHours = %d, want 12", cfg.Dashboard.ThresholdHours)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != want[0] || cfg.Security.CORSOrigins[1] != want[1] {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}

	// Defaults still apply for unset values
	if cfg.Drova.ServerURL != DefaultServerURL {
		t.Errorf("Drova.ServerURL = %q, want default", cfg.Drova.ServerURL)
	}
	if cfg.Server.Address() != "0.0.0.0:9000" {
		t.Errorf("Server.Address() = %q, want 0.0.0.0:9000", cfg.Server.Address())
	}
}

// TestLoadWithKoanfEnvOverridesFile tests that env vars override config file
func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	configContent := `
database:
  path: "/srv/file.db"

dashboard:
  range_days: 60
  lookback_days: 14

refresh:
  enabled: true
  interval: 6h

logging:
  level: "warn"
  format: "console"
`
	configPath := filepath.Join(tmpDir, "drova.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Database.Path != "/srv/file.db" {
		t.Errorf("Database.Path = %q, want /srv/file.db (from file)", cfg.Database.Path)
	}
	if cfg.Dashboard.RangeDays != 60 || cfg.Dashboard.LookbackDays != 14 {
		t.Errorf("Dashboard = %+v, want range 60 lookback 14", cfg.Dashboard)
	}
	if !cfg.Refresh.Enabled || cfg.Refresh.Interval != 6*time.Hour {
		t.Errorf("Refresh = %+v, want enabled every 6h", cfg.Refresh)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console (from file)", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error (env override)", cfg.Logging.Level)
	}
}

// TestLoadWithKoanfValidation tests that invalid settings are rejected
func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		errMsg  string
	}{
		{
			name:    "defaults are valid",
			envVars: map[string]string{},
		},
		{
			name:    "empty database path",
			envVars: map[string]string{"DB_PATH": ""},
			errMsg:  "DB_PATH is required",
		},
		{
			name:    "products url without scheme",
			envVars: map[string]string{"PRODUCTS_URL": "services.drova.io/products"},
			errMsg:  "PRODUCTS_URL is invalid",
		},
		{
			name:    "threshold below minimum",
			envVars: map[string]string{"DASHBOARD_THRESHOLD_HOURS": "2"},
			errMsg:  "DASHBOARD_THRESHOLD_HOURS",
		},
		{
			name:    "window above maximum",
			envVars: map[string]string{"DASHBOARD_WINDOW_DAYS": "91"},
			errMsg:  "DASHBOARD_WINDOW_DAYS",
		},
		{
			name:    "refresh interval too short",
			envVars: map[string]string{"REFRESH_ENABLED": "true", "REFRESH_INTERVAL": "10s"},
			errMsg:  "REFRESH_INTERVAL",
		},
		{
			name:    "rate limit ignored when disabled",
			envVars: map[string]string{"DISABLE_RATE_LIMIT": "true", "RATE_LIMIT_REQUESTS": "0"},
		},
		{
			name:    "unknown log level",
			envVars: map[string]string{"LOG_LEVEL": "verbose"},
			errMsg:  "LOG_LEVEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			t.Chdir(t.TempDir())
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()

			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("LoadWithKoanf() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("LoadWithKoanf() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}
