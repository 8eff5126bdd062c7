// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package services

import (
	"context"
	"sync"
	"time"

	"github.com/Xerz/drova-dash/internal/logging"
	syncpkg "github.com/Xerz/drova-dash/internal/sync"
)

// Refresher rebuilds server_info. *sync.Refresher satisfies it.
type Refresher interface {
	Run(ctx context.Context) (syncpkg.RefreshResult, error)
}

// Invalidator drops data derived from server_info.
// *dashboard.Service satisfies it.
type Invalidator interface {
	Invalidate()
}

// RefreshServiceConfig holds configuration for the refresh service.
type RefreshServiceConfig struct {
	// RunOnStartup triggers a refresh when the service starts.
	RunOnStartup bool

	// Interval between scheduled runs. Zero disables the schedule; runs
	// then happen only through Trigger.
	Interval time.Duration

	// Timeout bounds a single run. Default: 30m
	Timeout time.Duration
}

// RefreshStatus describes the last completed run.
type RefreshStatus struct {
	Running    bool                   `json:"running"`
	Pending    bool                   `json:"pending"`
	RunID      string                 `json:"run_id,omitempty"`
	LastRunAt  *time.Time             `json:"last_run_at,omitempty"`
	LastResult *syncpkg.RefreshResult `json:"last_result,omitempty"`
	LastError  string                 `json:"last_error,omitempty"`
}

// RefreshService runs the server_info refresh on a schedule and on demand.
// After every run that saved at least one station the dashboard dataset is
// invalidated.
type RefreshService struct {
	refresher   Refresher
	invalidator Invalidator
	config      RefreshServiceConfig
	trigger     chan struct{}
	name        string

	mu     sync.Mutex
	status RefreshStatus
}

// NewRefreshService creates a refresh service. invalidator may be nil.
func NewRefreshService(refresher Refresher, invalidator Invalidator, cfg RefreshServiceConfig) *RefreshService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &RefreshService{
		refresher:   refresher,
		invalidator: invalidator,
		config:      cfg,
		trigger:     make(chan struct{}, 1),
		name:        "refresh-service",
	}
}

// Trigger queues a run. It returns false when a run is already queued.
func (s *RefreshService) Trigger() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case s.trigger <- struct{}{}:
		s.status.Pending = true
		return true
	default:
		return false
	}
}

// Status returns a snapshot of the service state.
func (s *RefreshService) Status() RefreshStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	logger := logging.WithComponent("refresh")
	logger.Info().
		Bool("run_on_startup", s.config.RunOnStartup).
		Dur("interval", s.config.Interval).
		Msg("Refresh service starting")

	if s.config.RunOnStartup {
		s.run(ctx)
	}

	var tick <-chan time.Time
	if s.config.Interval > 0 {
		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Refresh service shutting down")
			return ctx.Err()

		case <-tick:
			s.run(ctx)

		case <-s.trigger:
			s.run(ctx)
		}
	}
}

// run performs one refresh. Failures are recorded and logged, never
// returned: a failed run should not restart the service.
func (s *RefreshService) run(ctx context.Context) {
	runID := logging.GenerateRunID()
	runCtx, cancel := context.WithTimeout(logging.ContextWithRunID(ctx, runID), s.config.Timeout)
	defer cancel()

	s.mu.Lock()
	s.status.Running = true
	s.status.Pending = false
	s.status.RunID = runID
	s.mu.Unlock()

	res, err := s.refresher.Run(runCtx)
	finished := time.Now().UTC()

	s.mu.Lock()
	s.status.Running = false
	s.status.LastRunAt = &finished
	s.status.LastResult = &res
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		logging.Ctx(runCtx).Warn().Err(err).Int("saved", res.Saved).Msg("Server info refresh failed")
	}
	if res.Saved > 0 && s.invalidator != nil {
		s.invalidator.Invalidate()
	}
}

// String names the service in supervisor logs.
func (s *RefreshService) String() string {
	return s.name
}
