// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestNewPerformanceMonitor(t *testing.T) {
	tests := []struct {
		name       string
		maxSamples int
		wantCap    int
	}{
		{"explicit size", 10, 10},
		{"zero uses default", 0, 1000},
		{"negative uses default", -5, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := NewPerformanceMonitor(tt.maxSamples)
			if len(pm.samples) != tt.wantCap {
				t.Errorf("capacity = %d, want %d", len(pm.samples), tt.wantCap)
			}
			if pm.Len() != 0 {
				t.Errorf("Len() = %d, want 0", pm.Len())
			}
		})
	}
}

func TestPerformanceMonitor_RingBuffer(t *testing.T) {
	pm := NewPerformanceMonitor(3)

	for i := int64(1); i <= 5; i++ {
		pm.RecordRequest(&RequestMetrics{Route: "/a", Method: "GET", DurationMS: i * 10, StatusCode: 200})
	}

	if pm.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", pm.Len())
	}

	stats := pm.GetStats()
	if len(stats) != 1 {
		t.Fatalf("stats = %d endpoints, want 1", len(stats))
	}
	// Only 30, 40 and 50 remain.
	if stats[0].MaxDuration != 50 || stats[0].P50Duration != 40 {
		t.Errorf("stats = %+v, want max 50 and p50 40", stats[0])
	}
	if stats[0].AvgDuration != 40 {
		t.Errorf("avg = %v, want 40", stats[0].AvgDuration)
	}
}

func TestPerformanceMonitor_GetStats(t *testing.T) {
	pm := NewPerformanceMonitor(100)
	for i := 0; i < 3; i++ {
		pm.RecordRequest(&RequestMetrics{Route: "/busy", Method: "GET", DurationMS: 5, StatusCode: 200})
	}
	pm.RecordRequest(&RequestMetrics{Route: "/busy", Method: "GET", DurationMS: 100, StatusCode: 500})
	pm.RecordRequest(&RequestMetrics{Route: "/quiet", Method: "POST", DurationMS: 7, StatusCode: 202})

	stats := pm.GetStats()
	if len(stats) != 2 {
		t.Fatalf("stats = %d endpoints, want 2", len(stats))
	}

	busy := stats[0]
	if busy.Endpoint != "GET /busy" {
		t.Errorf("first endpoint = %q, want GET /busy", busy.Endpoint)
	}
	if busy.RequestCount != 4 || busy.ErrorCount != 1 {
		t.Errorf("busy counts = %d requests, %d errors", busy.RequestCount, busy.ErrorCount)
	}
	if busy.P99Duration != 5 || busy.MaxDuration != 100 {
		t.Errorf("busy p99 = %d, max = %d", busy.P99Duration, busy.MaxDuration)
	}
	if stats[1].Endpoint != "POST /quiet" {
		t.Errorf("second endpoint = %q, want POST /quiet", stats[1].Endpoint)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	pm := NewPerformanceMonitor(10)

	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Get("/stations/{uuid}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stations/"+id, nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("status = %d, want 418", rec.Code)
		}
	}

	stats := pm.GetStats()
	if len(stats) != 1 {
		t.Fatalf("stats = %+v, want one route", stats)
	}
	if stats[0].Endpoint != "GET /stations/{uuid}" {
		t.Errorf("endpoint = %q, want route pattern", stats[0].Endpoint)
	}
	if stats[0].RequestCount != 2 {
		t.Errorf("request count = %d, want 2", stats[0].RequestCount)
	}
}

func TestPerformanceMonitor_SlowRequest(t *testing.T) {
	pm := NewPerformanceMonitor(10)
	pm.slowThreshold = time.Millisecond

	handler := pm.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

	stats := pm.GetStats()
	if len(stats) != 1 || stats[0].Endpoint != "GET /slow" {
		t.Fatalf("stats = %+v", stats)
	}
	if stats[0].MaxDuration < 5 {
		t.Errorf("max duration = %dms, want >= 5", stats[0].MaxDuration)
	}
}

func TestStatusRecorder_FirstWriteWins(t *testing.T) {
	rec := newStatusRecorder(httptest.NewRecorder())
	rec.WriteHeader(http.StatusNotFound)
	rec.WriteHeader(http.StatusOK)

	if rec.statusCode != http.StatusNotFound {
		t.Errorf("statusCode = %d, want 404", rec.statusCode)
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []int64
		p      float64
		want   int64
	}{
		{"empty", nil, 0.5, 0},
		{"single", []int64{7}, 0.99, 7},
		{"median", []int64{1, 2, 3, 4, 5}, 0.5, 3},
		{"p95 of ten", []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.95, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentile(tt.sorted, tt.p); got != tt.want {
				t.Errorf("percentile() = %d, want %d", got, tt.want)
			}
		})
	}
}
