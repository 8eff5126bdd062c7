// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/Xerz/drova-dash/internal/config"
	"github.com/Xerz/drova-dash/internal/dashboard"
	"github.com/Xerz/drova-dash/internal/database"
	"github.com/Xerz/drova-dash/internal/models"
	"github.com/Xerz/drova-dash/internal/supervisor/services"
)

// testRange covers the sample events below.
const testRange = "start=2026-03-01&end=2026-03-20"

type stubEvents struct {
	events    []models.ChangeEvent
	eventsErr error
	info      []models.StationInfo
	loads     atomic.Int32
}

func (s *stubEvents) LoadStationChanges(context.Context) ([]models.ChangeEvent, error) {
	s.loads.Add(1)
	return s.events, s.eventsErr
}

func (s *stubEvents) LoadServerInfo(context.Context) ([]models.StationInfo, error) {
	return s.info, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubRefresh struct {
	accept bool
	calls  int
}

func (s *stubRefresh) Trigger() bool {
	s.calls++
	return s.accept
}

func (s *stubRefresh) Status() services.RefreshStatus {
	return services.RefreshStatus{Pending: s.calls > 0 && s.accept}
}

func strp(s string) *string { return &s }

func sampleEvents() []models.ChangeEvent {
	at := func(day, hour int) time.Time { return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC) }
	ev := func(id int64, uuid, state, product string, t time.Time) models.ChangeEvent {
		return models.ChangeEvent{
			ID: id, UUID: uuid,
			OldState: "IDLE", NewState: state,
			OldProductID: product, NewProductID: product,
			ChangedAt: t,
		}
	}
	return []models.ChangeEvent{
		ev(1, "a", "BUSY", "p1", at(10, 10)),
		ev(2, "a", "IDLE", "p1", at(10, 12)),
		ev(3, "b", "BUSY", "p2", at(11, 8)),
		ev(4, "b", "IDLE", "p2", at(11, 9)),
	}
}

func sampleInfo() []models.StationInfo {
	return []models.StationInfo{
		{UUID: "a", Name: strp("Alpha"), CityName: strp("Moscow")},
		{UUID: "b", Name: strp("Beta"), CityName: strp("Kazan")},
		{UUID: "c", Name: strp("Gamma"), CityName: strp("Moscow")},
	}
}

func testDefaults() config.DashboardConfig {
	return config.DashboardConfig{
		ThresholdHours:      30,
		RangeDays:           30,
		ShareTopN:           20,
		AdoptionTopN:        20,
		CannibalizationTopN: 15,
		LookbackDays:        7,
	}
}

// setupTestHandler creates a handler over stub sources.
func setupTestHandler(t *testing.T, src *stubEvents, db Pinger, opts ...HandlerOption) *Handler {
	t.Helper()
	svc := dashboard.NewService(src, nil, testDefaults(), time.Minute)
	t.Cleanup(svc.Close)
	return NewHandler(svc, db, opts...)
}

func newTestRouter(h *Handler) http.Handler {
	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	return NewRouter(h, mw).Setup()
}

func doRequest(t *testing.T, router http.Handler, method, target string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp models.APIResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode %s %s: %v", method, target, err)
		}
	}
	return w, resp
}

func TestMetricEndpoints(t *testing.T) {
	src := &stubEvents{events: sampleEvents(), info: sampleInfo()}
	router := newTestRouter(setupTestHandler(t, src, nil))

	paths := []string{
		"/api/v1/intervals",
		"/api/v1/stations",
		"/api/v1/filters/options",
		"/api/v1/analytics/share",
		"/api/v1/analytics/adoption",
		"/api/v1/analytics/free-trial",
		"/api/v1/analytics/heatmap",
		"/api/v1/analytics/cannibalization",
		"/api/v1/analytics/utilization",
		"/api/v1/analytics/idle",
		"/api/v1/analytics/concentration",
		"/api/v1/analytics/volatility",
		"/api/v1/analytics/retention",
		"/api/v1/analytics/rolling",
		"/api/v1/analytics/rankings/stations",
		"/api/v1/analytics/rankings/products",
		"/api/v1/analytics/rankings/groups/city_name",
		"/api/v1/analytics/rankings/groups/processor",
		"/api/v1/analytics/map",
		"/api/v1/analytics/session-range",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w, resp := doRequest(t, router, http.MethodGet, path+"?"+testRange)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			if resp.Status != "success" {
				t.Errorf("status field = %q", resp.Status)
			}
			if resp.Metadata.Intervals == nil || *resp.Metadata.Intervals != 2 {
				t.Errorf("metadata intervals = %v, want 2", resp.Metadata.Intervals)
			}
			if resp.Metadata.StationsInScope == nil || *resp.Metadata.StationsInScope != 3 {
				t.Errorf("metadata stations_in_scope = %v, want 3", resp.Metadata.StationsInScope)
			}
			if resp.Metadata.Controls == nil {
				t.Error("metadata controls missing")
			}
		})
	}

	if got := src.loads.Load(); got != 1 {
		t.Errorf("dataset loads = %d, want 1", got)
	}
}

func TestHeatmapCached(t *testing.T) {
	src := &stubEvents{events: sampleEvents(), info: sampleInfo()}
	router := newTestRouter(setupTestHandler(t, src, nil))
	target := "/api/v1/analytics/heatmap?" + testRange

	_, first := doRequest(t, router, http.MethodGet, target)
	cells, ok := first.Data.([]any)
	if !ok || len(cells) != 168 {
		t.Fatalf("heatmap data = %T with %d cells, want 168", first.Data, len(cells))
	}
	if first.Metadata.Cached {
		t.Error("first response reported as cached")
	}

	_, second := doRequest(t, router, http.MethodGet, target)
	if !second.Metadata.Cached {
		t.Error("second response not served from cache")
	}
	if second.Metadata.QueryTimeMS != 0 {
		t.Errorf("cached query time = %d, want 0", second.Metadata.QueryTimeMS)
	}

	// A different threshold is a different result.
	_, other := doRequest(t, router, http.MethodGet, target+"&threshold_hours=4")
	if other.Metadata.Cached {
		t.Error("different query served from cache")
	}
}

func TestInvalidateDropsResults(t *testing.T) {
	src := &stubEvents{events: sampleEvents(), info: sampleInfo()}
	h := setupTestHandler(t, src, nil)
	router := newTestRouter(h)
	target := "/api/v1/analytics/concentration?" + testRange

	doRequest(t, router, http.MethodGet, target)
	h.Invalidate()
	_, resp := doRequest(t, router, http.MethodGet, target)

	if resp.Metadata.Cached {
		t.Error("result served from cache after Invalidate")
	}
	if got := src.loads.Load(); got != 2 {
		t.Errorf("dataset loads = %d, want 2", got)
	}
}

func TestFacetParameters(t *testing.T) {
	src := &stubEvents{events: sampleEvents(), info: sampleInfo()}
	router := newTestRouter(setupTestHandler(t, src, nil))

	tests := []struct {
		name      string
		query     string
		intervals int
		scope     int
	}{
		{"no facets", testRange, 2, 3},
		{"city", testRange + "&cities=Kazan", 1, 1},
		{"two cities", testRange + "&cities=Kazan,Moscow", 2, 3},
		{"station", testRange + "&stations=a", 1, 1},
		{"product does not narrow scope", testRange + "&products=p2", 1, 3},
		{"unknown city", testRange + "&cities=Omsk", 0, 0},
		{"short range", "start=2026-03-11&end=2026-03-11", 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := doRequest(t, router, http.MethodGet, "/api/v1/analytics/rankings/stations?"+tt.query)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			if got := *resp.Metadata.Intervals; got != tt.intervals {
				t.Errorf("intervals = %d, want %d", got, tt.intervals)
			}
			if got := *resp.Metadata.StationsInScope; got != tt.scope {
				t.Errorf("stations_in_scope = %d, want %d", got, tt.scope)
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	src := &stubEvents{events: sampleEvents(), info: sampleInfo()}
	router := newTestRouter(setupTestHandler(t, src, nil))

	tests := []struct {
		name  string
		path  string
		field string
	}{
		{"threshold too low", "/api/v1/analytics/heatmap?threshold_hours=3", "threshold_hours"},
		{"threshold too high", "/api/v1/analytics/heatmap?threshold_hours=31", "threshold_hours"},
		{"threshold not a number", "/api/v1/analytics/heatmap?threshold_hours=abc", "threshold_hours"},
		{"window too long", "/api/v1/analytics/rolling?window_days=91", "window_days"},
		{"bad date", "/api/v1/analytics/heatmap?start=2026/03/01", "start"},
		{"bad boolean", "/api/v1/analytics/idle?free_trial_only=maybe", "free_trial_only"},
		{"reversed ram range", "/api/v1/analytics/idle?ram_min=10&ram_max=5", "ram_min"},
		{"negative ram", "/api/v1/analytics/idle?ram_min=-1", "ram_min"},
		{"unknown group column", "/api/v1/analytics/rankings/groups/uuid", "column"},
		{"bad limit", "/api/v1/intervals?limit=0", "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := doRequest(t, router, http.MethodGet, tt.path)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body = %s", w.Code, w.Body.String())
			}
			if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
				t.Fatalf("error = %+v, want VALIDATION_ERROR", resp.Error)
			}
			if got := resp.Error.Details["field"]; got != tt.field {
				t.Errorf("details.field = %v, want %s", got, tt.field)
			}
		})
	}

	if got := src.loads.Load(); got != 0 {
		t.Errorf("dataset loaded %d times for invalid requests", got)
	}
}

func TestIntervalsPagination(t *testing.T) {
	src := &stubEvents{events: sampleEvents(), info: sampleInfo()}
	router := newTestRouter(setupTestHandler(t, src, nil))

	tests := []struct {
		name    string
		query   string
		rows    int
		hasMore bool
	}{
		{"default limit", "", 2, false},
		{"first page", "&limit=1", 1, true},
		{"second page", "&limit=1&offset=1", 1, false},
		{"past the end", "&offset=5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := doRequest(t, router, http.MethodGet, "/api/v1/intervals?"+testRange+tt.query)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			rows, ok := resp.Data.([]any)
			if !ok {
				t.Fatalf("data = %T, want array", resp.Data)
			}
			if len(rows) != tt.rows {
				t.Errorf("rows = %d, want %d", len(rows), tt.rows)
			}
			p := resp.Metadata.Pagination
			if p == nil {
				t.Fatal("pagination metadata missing")
			}
			if p.Total != 2 || p.HasMore != tt.hasMore {
				t.Errorf("pagination = %+v, want total 2 has_more %v", p, tt.hasMore)
			}
		})
	}
}

func TestServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"database unavailable", database.ErrDatabaseUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"missing table", database.ErrTableNotFound, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"query failure", errors.New("binder error"), http.StatusInternalServerError, "DATABASE_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &stubEvents{eventsErr: tt.err}
			router := newTestRouter(setupTestHandler(t, src, nil))

			w, resp := doRequest(t, router, http.MethodGet, "/api/v1/analytics/heatmap")
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("error = %+v, want %s", resp.Error, tt.code)
			}
			if resp.Status != "error" {
				t.Errorf("status field = %q, want error", resp.Status)
			}
		})
	}
}

func TestProducts(t *testing.T) {
	src := &stubEvents{events: sampleEvents(), info: sampleInfo()}
	router := newTestRouter(setupTestHandler(t, src, nil))

	w, resp := doRequest(t, router, http.MethodGet, "/api/v1/products")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	// No catalog configured: the product list is empty, not null.
	if products, ok := resp.Data.([]any); !ok || len(products) != 0 {
		t.Errorf("products = %v, want empty list", resp.Data)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("live", func(t *testing.T) {
		router := newTestRouter(setupTestHandler(t, &stubEvents{eventsErr: errors.New("down")}, nil))
		w, _ := doRequest(t, router, http.MethodGet, "/api/v1/health/live")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("ready", func(t *testing.T) {
		router := newTestRouter(setupTestHandler(t, &stubEvents{events: sampleEvents()}, stubPinger{}))
		w, _ := doRequest(t, router, http.MethodGet, "/api/v1/health/ready")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("not ready when dataset fails", func(t *testing.T) {
		router := newTestRouter(setupTestHandler(t, &stubEvents{eventsErr: errors.New("down")}, stubPinger{}))
		w, _ := doRequest(t, router, http.MethodGet, "/api/v1/health/ready")
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})

	t.Run("not ready when ping fails", func(t *testing.T) {
		router := newTestRouter(setupTestHandler(t, &stubEvents{}, stubPinger{err: errors.New("closed")}))
		w, _ := doRequest(t, router, http.MethodGet, "/api/v1/health/ready")
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})

	t.Run("health reports degraded database", func(t *testing.T) {
		src := &stubEvents{}
		router := newTestRouter(setupTestHandler(t, src, stubPinger{err: errors.New("closed")}, WithVersion("1.2.3")))
		w, resp := doRequest(t, router, http.MethodGet, "/api/v1/health")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		data, _ := resp.Data.(map[string]any)
		if data["status"] != "degraded" || data["version"] != "1.2.3" {
			t.Errorf("health = %v", data)
		}
		if src.loads.Load() != 0 {
			t.Error("health endpoint loaded the dataset")
		}
	})

	t.Run("performance", func(t *testing.T) {
		router := newTestRouter(setupTestHandler(t, &stubEvents{}, nil))
		doRequest(t, router, http.MethodGet, "/api/v1/health/live")
		_, resp := doRequest(t, router, http.MethodGet, "/api/v1/health/performance")
		data, _ := resp.Data.(map[string]any)
		if samples, _ := data["samples"].(float64); samples < 1 {
			t.Errorf("samples = %v, want at least 1", data["samples"])
		}
	})
}

func TestAdminRefresh(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		router := newTestRouter(setupTestHandler(t, &stubEvents{}, nil))
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			w, resp := doRequest(t, router, method, "/api/v1/admin/refresh")
			if w.Code != http.StatusNotFound || resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
				t.Errorf("%s status = %d, error = %+v", method, w.Code, resp.Error)
			}
		}
	})

	t.Run("queued", func(t *testing.T) {
		rc := &stubRefresh{accept: true}
		router := newTestRouter(setupTestHandler(t, &stubEvents{}, nil, WithRefresh(rc)))
		w, resp := doRequest(t, router, http.MethodPost, "/api/v1/admin/refresh")
		if w.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202", w.Code)
		}
		data, _ := resp.Data.(map[string]any)
		if data["pending"] != true {
			t.Errorf("status = %v, want pending", data)
		}
		if rc.calls != 1 {
			t.Errorf("Trigger calls = %d, want 1", rc.calls)
		}
	})

	t.Run("already queued", func(t *testing.T) {
		router := newTestRouter(setupTestHandler(t, &stubEvents{}, nil, WithRefresh(&stubRefresh{})))
		w, resp := doRequest(t, router, http.MethodPost, "/api/v1/admin/refresh")
		if w.Code != http.StatusConflict || resp.Error == nil || resp.Error.Code != "CONFLICT" {
			t.Errorf("status = %d, error = %+v", w.Code, resp.Error)
		}
	})

	t.Run("status", func(t *testing.T) {
		router := newTestRouter(setupTestHandler(t, &stubEvents{}, nil, WithRefresh(&stubRefresh{})))
		w, _ := doRequest(t, router, http.MethodGet, "/api/v1/admin/refresh")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}
