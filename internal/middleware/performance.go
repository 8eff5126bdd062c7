// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/Xerz/drova-dash/internal/logging"
)

// DefaultSlowThreshold is the latency above which a request is logged.
const DefaultSlowThreshold = time.Second

// RequestMetrics is one observed request.
type RequestMetrics struct {
	Route      string
	Method     string
	DurationMS int64
	StatusCode int
	Timestamp  time.Time
}

// EndpointStats aggregates the retained samples of one route.
type EndpointStats struct {
	Endpoint     string  `json:"endpoint"`
	RequestCount int64   `json:"request_count"`
	ErrorCount   int64   `json:"error_count"`
	AvgDuration  float64 `json:"avg_duration_ms"`
	P50Duration  int64   `json:"p50_duration_ms"`
	P95Duration  int64   `json:"p95_duration_ms"`
	P99Duration  int64   `json:"p99_duration_ms"`
	MaxDuration  int64   `json:"max_duration_ms"`
}

// PerformanceMonitor keeps the most recent request samples in a ring buffer.
type PerformanceMonitor struct {
	mu      sync.RWMutex
	samples []RequestMetrics
	next    int
	full    bool

	slowThreshold time.Duration
}

// NewPerformanceMonitor creates a monitor retaining maxSamples requests.
func NewPerformanceMonitor(maxSamples int) *PerformanceMonitor {
	if maxSamples <= 0 {
		maxSamples = 1000
	}
	return &PerformanceMonitor{
		samples:       make([]RequestMetrics, maxSamples),
		slowThreshold: DefaultSlowThreshold,
	}
}

// RecordRequest adds a sample, overwriting the oldest when full.
func (pm *PerformanceMonitor) RecordRequest(m *RequestMetrics) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.samples[pm.next] = *m
	pm.next++
	if pm.next == len(pm.samples) {
		pm.next = 0
		pm.full = true
	}
}

// Len returns the number of retained samples.
func (pm *PerformanceMonitor) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.lenLocked()
}

func (pm *PerformanceMonitor) lenLocked() int {
	if pm.full {
		return len(pm.samples)
	}
	return pm.next
}

// GetStats returns per-route statistics sorted by request count, busiest first.
func (pm *PerformanceMonitor) GetStats() []EndpointStats {
	pm.mu.RLock()
	byEndpoint := make(map[string][]RequestMetrics)
	for i := 0; i < pm.lenLocked(); i++ {
		m := pm.samples[i]
		key := m.Method + " " + m.Route
		byEndpoint[key] = append(byEndpoint[key], m)
	}
	pm.mu.RUnlock()

	stats := make([]EndpointStats, 0, len(byEndpoint))
	for endpoint, samples := range byEndpoint {
		durations := make([]int64, len(samples))
		var sum, errors int64
		for i, s := range samples {
			durations[i] = s.DurationMS
			sum += s.DurationMS
			if s.StatusCode >= http.StatusInternalServerError {
				errors++
			}
		}
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

		stats = append(stats, EndpointStats{
			Endpoint:     endpoint,
			RequestCount: int64(len(durations)),
			ErrorCount:   errors,
			AvgDuration:  float64(sum) / float64(len(durations)),
			P50Duration:  percentile(durations, 0.50),
			P95Duration:  percentile(durations, 0.95),
			P99Duration:  percentile(durations, 0.99),
			MaxDuration:  durations[len(durations)-1],
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RequestCount != stats[j].RequestCount {
			return stats[i].RequestCount > stats[j].RequestCount
		}
		return stats[i].Endpoint < stats[j].Endpoint
	})
	return stats
}

// Middleware records every request and warns about slow ones.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := routeLabel(r)
		pm.RecordRequest(&RequestMetrics{
			Route:      route,
			Method:     r.Method,
			DurationMS: elapsed.Milliseconds(),
			StatusCode: rec.statusCode,
			Timestamp:  start,
		})

		if elapsed > pm.slowThreshold {
			logging.Ctx(r.Context()).Warn().
				Str("method", r.Method).
				Str("route", route).
				Int("status", rec.statusCode).
				Dur("duration", elapsed).
				Msg("Slow request detected")
		}
	})
}

// percentile calculates the percentile value from a sorted slice
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)-1) * p)
	return sorted[index]
}
