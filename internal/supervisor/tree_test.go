// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Xerz/drova-dash/internal/logging"
)

func testLogger() *slog.Logger {
	return slog.New(logging.NewSlogHandlerWithLogger(logging.NewTestLogger(io.Discard)))
}

func TestNewSupervisorTree(t *testing.T) {
	t.Run("applies defaults for zero config", func(t *testing.T) {
		tree, err := NewSupervisorTree(testLogger(), TreeConfig{})
		if err != nil {
			t.Fatalf("NewSupervisorTree() error = %v", err)
		}
		if tree.config != DefaultTreeConfig() {
			t.Errorf("config = %+v, want %+v", tree.config, DefaultTreeConfig())
		}
		if tree.Root() == nil {
			t.Error("root supervisor is nil")
		}
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		cfg := TreeConfig{FailureThreshold: 2, FailureDecay: 1, FailureBackoff: time.Second, ShutdownTimeout: 3 * time.Second}
		tree, err := NewSupervisorTree(testLogger(), cfg)
		if err != nil {
			t.Fatalf("NewSupervisorTree() error = %v", err)
		}
		if tree.config != cfg {
			t.Errorf("config = %+v, want %+v", tree.config, cfg)
		}
	})
}

func TestSupervisorTreeLifecycle(t *testing.T) {
	tree, err := NewSupervisorTree(testLogger(), TreeConfig{
		FailureBackoff:  100 * time.Millisecond,
		ShutdownTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}

	dataSvc := NewMockService("mock-data")
	apiSvc := NewMockService("mock-api")
	tree.AddDataService(dataSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	time.Sleep(100 * time.Millisecond)
	if dataSvc.StartCount() < 1 || apiSvc.StartCount() < 1 {
		t.Errorf("starts: data=%d api=%d, want both started", dataSvc.StartCount(), apiSvc.StartCount())
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("tree stopped with %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down in time")
	}

	if report, err := tree.UnstoppedServiceReport(); err != nil || len(report) != 0 {
		t.Errorf("unstopped services = %v, err = %v", report, err)
	}
}

func TestSupervisorTreeRestartsFailingService(t *testing.T) {
	tree, _ := NewSupervisorTree(testLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	failing := NewMockService("failing")
	failing.SetFailCount(2)
	stable := NewMockService("stable")

	tree.AddDataService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	time.Sleep(200 * time.Millisecond)

	if failing.StartCount() < 3 {
		t.Errorf("failing service starts = %d, want at least 3", failing.StartCount())
	}
	if stable.StartCount() != 1 {
		t.Errorf("stable service starts = %d, want 1", stable.StartCount())
	}

	cancel()
	<-errCh
}
