// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Xerz/drova-dash/internal/logging"
	"github.com/Xerz/drova-dash/internal/metrics"
	"github.com/Xerz/drova-dash/internal/models"
)

// ServerInfoStore is the part of the station database the refresher writes to.
type ServerInfoStore interface {
	EnsureServerInfoTable(ctx context.Context) error
	StationUUIDs(ctx context.Context) ([]string, error)
	UpsertServerInfo(ctx context.Context, records []models.ServerRecord) (int, error)
}

// StationSource fetches per-station payloads. *Client implements it.
type StationSource interface {
	Server(ctx context.Context, uuid string) (map[string]any, error)
	Hardware(ctx context.Context, uuid string) (map[string]any, error)
}

// RefreshResult summarizes one refresh run.
type RefreshResult struct {
	Stations    int           `json:"stations"`
	Saved       int           `json:"saved"`
	Unavailable int           `json:"unavailable"`
	MissingUUID int           `json:"missing_uuid"`
	Duration    time.Duration `json:"duration"`
}

// ErrRefreshInProgress is returned when Run is called while another run of
// the same Refresher has not finished.
var ErrRefreshInProgress = errors.New("server info refresh already running")

// batchSize is the number of records written per transaction.
const batchSize = 50

// Refresher rebuilds server_info from the Drova API for every known station.
type Refresher struct {
	store  ServerInfoStore
	source StationSource
	now    func() time.Time

	running atomic.Bool
}

// NewRefresher creates a refresher writing to store with payloads from source
func NewRefresher(store ServerInfoStore, source StationSource) *Refresher {
	return &Refresher{
		store:  store,
		source: source,
		now:    time.Now,
	}
}

// Running reports whether a run is in progress.
func (r *Refresher) Running() bool {
	return r.running.Load()
}

// Run refreshes server_info. Concurrent calls fail with
// ErrRefreshInProgress. Stations whose server payload cannot be fetched
// are skipped; a failed hardware fetch stores the station without hardware.
// Records are written in batches so a cancelled run keeps the batches
// already written.
func (r *Refresher) Run(ctx context.Context) (RefreshResult, error) {
	if !r.running.CompareAndSwap(false, true) {
		return RefreshResult{}, ErrRefreshInProgress
	}
	defer r.running.Store(false)

	start := r.now()
	var res RefreshResult

	if err := r.store.EnsureServerInfoTable(ctx); err != nil {
		metrics.RefreshRuns.WithLabelValues("error").Inc()
		return res, fmt.Errorf("ensure server_info: %w", err)
	}

	uuids, err := r.store.StationUUIDs(ctx)
	if err != nil {
		metrics.RefreshRuns.WithLabelValues("error").Inc()
		return res, fmt.Errorf("gather station uuids: %w", err)
	}
	res.Stations = len(uuids)
	logging.Ctx(ctx).Info().Int("stations", len(uuids)).Msg("Refreshing server info")

	batch := make([]models.ServerRecord, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := r.store.UpsertServerInfo(ctx, batch)
		if err != nil {
			return fmt.Errorf("save server info: %w", err)
		}
		res.Saved += n
		metrics.RefreshStations.WithLabelValues("saved").Add(float64(n))
		batch = batch[:0]
		return nil
	}

	for _, uuid := range uuids {
		if err := ctx.Err(); err != nil {
			break
		}

		rec, ok := r.fetch(ctx, uuid, &res)
		if !ok {
			continue
		}
		batch = append(batch, rec)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				metrics.RefreshRuns.WithLabelValues("error").Inc()
				return res, err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		metrics.RefreshRuns.WithLabelValues("cancelled").Inc()
		return res, fmt.Errorf("refresh interrupted after %d saved stations: %w", res.Saved, err)
	}

	if err := flush(); err != nil {
		metrics.RefreshRuns.WithLabelValues("error").Inc()
		return res, err
	}

	res.Duration = r.now().Sub(start)
	metrics.RefreshDuration.Observe(res.Duration.Seconds())

	metrics.RefreshRuns.WithLabelValues("success").Inc()
	metrics.RefreshLastSuccess.SetToCurrentTime()
	logging.Ctx(ctx).Info().
		Int("stations", res.Stations).
		Int("saved", res.Saved).
		Int("unavailable", res.Unavailable).
		Int("missing_uuid", res.MissingUUID).
		Dur("duration", res.Duration).
		Msg("Server info refresh complete")
	return res, nil
}

// fetch builds the record of one station.
func (r *Refresher) fetch(ctx context.Context, uuid string, res *RefreshResult) (models.ServerRecord, bool) {
	server, err := r.source.Server(ctx, uuid)
	if err != nil || len(server) == 0 {
		res.Unavailable++
		metrics.RefreshStations.WithLabelValues("unavailable").Inc()
		logging.Ctx(ctx).Debug().Str("uuid", uuid).Err(err).Msg("Skipping station: server endpoint unavailable")
		return models.ServerRecord{}, false
	}

	hardware, err := r.source.Hardware(ctx, uuid)
	if err != nil {
		logging.Ctx(ctx).Debug().Str("uuid", uuid).Err(err).Msg("Hardware endpoint unavailable, saving without hardware")
		hardware = nil
	}

	rec := ParseServer(server)
	ParseHardware(hardware).Apply(&rec)
	rec.FetchedAt = r.now().UTC().Format("2006-01-02T15:04:05.000000")

	if rec.UUID == "" {
		res.MissingUUID++
		metrics.RefreshStations.WithLabelValues("missing_uuid").Inc()
		logging.Ctx(ctx).Debug().Str("uuid", uuid).Msg("Skipping payload without uuid")
		return models.ServerRecord{}, false
	}

	logging.Ctx(ctx).Debug().Str("uuid", uuid).Msg("Fetched server info")
	return rec, true
}
