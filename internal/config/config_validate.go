// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateDrova,
		c.validateCache,
		c.validateDashboard,
		c.validateRefresh,
		c.validateRateLimits,
		c.validateLogging,
	}

	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validateDatabase validates the database location and DuckDB tuning
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("DUCKDB_QUERY_TIMEOUT must be positive")
	}
	return nil
}

// Drova client limits
const (
	minDrovaTimeout = time.Second
	maxDrovaTimeout = 5 * time.Minute
	maxDrovaRPS     = 100
)

// validateDrova validates the Drova API endpoints and client limits
func (c *Config) validateDrova() error {
	endpoints := []struct {
		value, name string
	}{
		{c.Drova.ServerURL, "DROVA_SERVER_URL"},
		{c.Drova.HardwareURL, "DROVA_HARDWARE_URL"},
		{c.Drova.ProductsURL, "PRODUCTS_URL"},
	}
	for _, e := range endpoints {
		if e.value == "" {
			return fmt.Errorf("%s is required", e.name)
		}
		if err := validateHTTPURL(e.value, e.name); err != nil {
			return fmt.Errorf("%s is invalid: %w", e.name, err)
		}
	}

	if c.Drova.Timeout < minDrovaTimeout || c.Drova.Timeout > maxDrovaTimeout {
		return fmt.Errorf("DROVA_TIMEOUT must be between %v and %v", minDrovaTimeout, maxDrovaTimeout)
	}
	if c.Drova.RequestsPerSecond <= 0 || c.Drova.RequestsPerSecond > maxDrovaRPS {
		return fmt.Errorf("DROVA_REQUESTS_PER_SECOND must be greater than 0 and at most %d", maxDrovaRPS)
	}
	if c.Drova.Burst < 1 {
		return fmt.Errorf("DROVA_BURST must be at least 1")
	}
	return nil
}

// validateCache validates the cache TTL
func (c *Config) validateCache() error {
	if c.Cache.TTL < 0 {
		return fmt.Errorf("CACHE_TTL must be non-negative")
	}
	return nil
}

// Dashboard bounds. Threshold and window bounds match the query controls.
const (
	minThresholdHours = 4
	maxThresholdHours = 30
	maxWindowDays     = 90
	maxRangeDays      = 3650
	maxTopN           = 1000
)

// validateDashboard validates dashboard query defaults
func (c *Config) validateDashboard() error {
	d := c.Dashboard
	if d.ThresholdHours < minThresholdHours || d.ThresholdHours > maxThresholdHours {
		return fmt.Errorf("DASHBOARD_THRESHOLD_HOURS must be between %d and %d", minThresholdHours, maxThresholdHours)
	}
	if d.WindowDays < 0 || d.WindowDays > maxWindowDays {
		return fmt.Errorf("DASHBOARD_WINDOW_DAYS must be between 0 and %d", maxWindowDays)
	}
	if d.RangeDays < 1 || d.RangeDays > maxRangeDays {
		return fmt.Errorf("DASHBOARD_RANGE_DAYS must be between 1 and %d", maxRangeDays)
	}

	topN := []struct {
		value int
		name  string
	}{
		{d.ShareTopN, "DASHBOARD_SHARE_TOP_N"},
		{d.AdoptionTopN, "DASHBOARD_ADOPTION_TOP_N"},
		{d.CannibalizationTopN, "DASHBOARD_CANNIBALIZATION_TOP_N"},
	}
	for _, n := range topN {
		if n.value < 1 || n.value > maxTopN {
			return fmt.Errorf("%s must be between 1 and %d", n.name, maxTopN)
		}
	}

	if d.LookbackDays < 1 || d.LookbackDays > maxRangeDays {
		return fmt.Errorf("DASHBOARD_LOOKBACK_DAYS must be between 1 and %d", maxRangeDays)
	}
	return nil
}

// validateRefresh validates the server_info refresh schedule (only if enabled)
func (c *Config) validateRefresh() error {
	if !c.Refresh.Enabled {
		return nil
	}
	if c.Refresh.Interval < time.Minute {
		return fmt.Errorf("REFRESH_INTERVAL must be at least 1m")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format == "" {
		return nil
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
