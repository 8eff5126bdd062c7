// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateIDs(t *testing.T) {
	r1, r2 := GenerateRequestID(), GenerateRequestID()
	if len(r1) != 36 {
		t.Errorf("expected 36-character request ID, got %d", len(r1))
	}
	if r1 == r2 {
		t.Error("expected unique request IDs")
	}

	run := GenerateRunID()
	if len(run) != 8 {
		t.Errorf("expected 8-character run ID, got %d", len(run))
	}
}

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	if id := RequestIDFromContext(ctx); id != "" {
		t.Errorf("expected empty request ID, got %s", id)
	}
	if id := RunIDFromContext(ctx); id != "" {
		t.Errorf("expected empty run ID, got %s", id)
	}

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithRunID(ctx, "run-1")
	if id := RequestIDFromContext(ctx); id != "req-1" {
		t.Errorf("RequestIDFromContext = %q, want req-1", id)
	}
	if id := RunIDFromContext(ctx); id != "run-1" {
		t.Errorf("RunIDFromContext = %q, want run-1", id)
	}
}

func TestCtx(t *testing.T) {
	prev := GetLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), zerolog.New(&buf))
	ctx = ContextWithRequestID(ctx, "req-42")
	ctx = ContextWithRunID(ctx, "abcd1234")

	Ctx(ctx).Info().Msg("dataset rebuilt")

	output := buf.String()
	for _, want := range []string{`"request_id":"req-42"`, `"run_id":"abcd1234"`, "dataset rebuilt"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestCtxWithoutFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), zerolog.New(&buf))

	Ctx(ctx).Warn().Msg("plain")

	output := buf.String()
	if strings.Contains(output, "request_id") || strings.Contains(output, "run_id") {
		t.Errorf("unexpected context fields: %s", output)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	prevLogger := Logger()
	t.Cleanup(func() { SetLogger(prevLogger) })
	SetLogger(NewTestLogger(&buf))

	logger := WithComponent("refresher")
	logger.Warn().Msg("station unavailable")

	if !strings.Contains(buf.String(), `"component":"refresher"`) {
		t.Errorf("expected component field: %s", buf.String())
	}
}
