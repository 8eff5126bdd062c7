// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Xerz/drova-dash/internal/cache"
	"github.com/Xerz/drova-dash/internal/config"
	"github.com/Xerz/drova-dash/internal/database"
	"github.com/Xerz/drova-dash/internal/filter"
	"github.com/Xerz/drova-dash/internal/intervals"
	"github.com/Xerz/drova-dash/internal/logging"
	"github.com/Xerz/drova-dash/internal/metrics"
	"github.com/Xerz/drova-dash/internal/models"
)

const datasetKey = "dataset"

// EventSource reads the station log and station metadata.
// *database.DB satisfies it.
type EventSource interface {
	LoadStationChanges(ctx context.Context) ([]models.ChangeEvent, error)
	LoadServerInfo(ctx context.Context) ([]models.StationInfo, error)
}

// CatalogSource resolves product ids to titles.
// *sync.Client satisfies it.
type CatalogSource interface {
	ProductTitles(ctx context.Context) (map[string]string, error)
}

// Dataset is the query-independent part of the dashboard: every busy
// interval with its duration, plus the metadata used for enrichment.
type Dataset struct {
	Intervals  []models.EnrichedInterval
	ServerInfo []models.StationInfo
	Titles     map[string]string
	Meta       filter.Metadata
	Events     int
	LoadedAt   time.Time
}

// Service builds selections and metric results on top of a cached Dataset.
type Service struct {
	events   EventSource
	catalog  CatalogSource
	defaults config.DashboardConfig

	cache *cache.Cache
	// loadMu serializes dataset rebuilds so concurrent misses load once.
	loadMu sync.Mutex
	now    func() time.Time
}

// NewService creates a dashboard service. catalog may be nil, in which
// case products are labelled by id only. The dataset is reused for ttl.
func NewService(events EventSource, catalog CatalogSource, defaults config.DashboardConfig, ttl time.Duration) *Service {
	return &Service{
		events:   events,
		catalog:  catalog,
		defaults: defaults,
		cache:    cache.New(ttl),
		now:      time.Now,
	}
}

// Close releases the cache sweeper.
func (s *Service) Close() {
	s.cache.Close()
}

// Invalidate drops the cached dataset. The next request reloads
// station_changes, server_info and the product catalog.
func (s *Service) Invalidate() {
	s.cache.Clear()
	logging.Info().Msg("Dashboard dataset invalidated")
}

// Dataset returns the cached dataset, loading it on a miss.
func (s *Service) Dataset(ctx context.Context) (*Dataset, error) {
	if ds, ok := s.cachedDataset(); ok {
		return ds, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	// Another request may have finished loading while we waited.
	if v, ok := s.cache.Get(datasetKey); ok {
		return v.(*Dataset), nil
	}

	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(datasetKey, ds)
	return ds, nil
}

// Loaded returns the cached dataset without loading one.
func (s *Service) Loaded() (*Dataset, bool) {
	v, ok := s.cache.Get(datasetKey)
	if !ok {
		return nil, false
	}
	return v.(*Dataset), true
}

func (s *Service) cachedDataset() (*Dataset, bool) {
	v, ok := s.cache.Get(datasetKey)
	metrics.RecordCacheLookup("dataset", ok)
	if !ok {
		return nil, false
	}
	return v.(*Dataset), true
}

func (s *Service) load(ctx context.Context) (*Dataset, error) {
	start := time.Now()

	events, err := s.events.LoadStationChanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("load station changes: %w", err)
	}
	busy := intervals.Reconstruct(events)
	rows := filter.WithDurations(busy)

	info, err := s.loadServerInfo(ctx)
	if err != nil {
		return nil, err
	}
	titles, err := s.loadTitles(ctx)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Intervals:  rows,
		ServerInfo: info,
		Titles:     titles,
		Meta:       filter.NewMetadata(info, titles),
		Events:     len(events),
		LoadedAt:   s.now().UTC(),
	}

	elapsed := time.Since(start)
	metrics.RecordDatasetLoad(elapsed, len(rows))
	logging.Ctx(ctx).Info().
		Int("events", len(events)).
		Int("intervals", len(rows)).
		Int("stations", len(info)).
		Int("products", len(titles)).
		Dur("duration", elapsed).
		Msg("Dashboard dataset loaded")

	return ds, nil
}

// loadServerInfo treats any failure other than cancellation as "no station
// metadata": the dashboard still works, with Unknown labels.
func (s *Service) loadServerInfo(ctx context.Context) ([]models.StationInfo, error) {
	info, err := s.events.LoadServerInfo(ctx)
	if err == nil {
		return info, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("load server_info: %w", ctxErr)
	}

	if errors.Is(err, database.ErrTableNotFound) {
		logging.Ctx(ctx).Warn().Msg("server_info table missing, run the fetcher to populate it")
	} else {
		logging.Ctx(ctx).Warn().Err(err).Msg("server_info unavailable, station attributes will be Unknown")
	}
	return []models.StationInfo{}, nil
}

func (s *Service) loadTitles(ctx context.Context) (map[string]string, error) {
	if s.catalog == nil {
		return map[string]string{}, nil
	}
	titles, err := s.catalog.ProductTitles(ctx)
	if err == nil {
		return titles, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("load product titles: %w", ctxErr)
	}
	logging.Ctx(ctx).Warn().Err(err).Msg("Product catalog unavailable, products will be labelled by id")
	return map[string]string{}, nil
}
