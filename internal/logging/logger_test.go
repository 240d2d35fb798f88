// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// capture swaps the global logger for one writing to a buffer.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	prevLogger := Logger()
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		SetLogger(prevLogger)
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("invalid log line %q: %v", line, err)
	}
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInitJSON(t *testing.T) {
	prevLogger := Logger()
	prevLevel := zerolog.GlobalLevel()
	defer func() {
		SetLogger(prevLogger)
		zerolog.SetGlobalLevel(prevLevel)
	}()

	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})

	Info().Msg("hidden")
	Warn().Str("queue", "metrics-3").Msg("shown")

	entry := decodeLine(t, &buf)
	if entry["message"] != "shown" || entry["level"] != "warn" || entry["queue"] != "metrics-3" {
		t.Errorf("entry = %v", entry)
	}
}

func TestErrHelper(t *testing.T) {
	buf := capture(t)
	Err(errors.New("boom")).Msg("failed")

	entry := decodeLine(t, buf)
	if entry["error"] != "boom" || entry["level"] != "error" {
		t.Errorf("entry = %v", entry)
	}
}

func TestCtxAddsRecordFields(t *testing.T) {
	buf := capture(t)

	ctx := ContextWithRecord(context.Background(), Record{Worker: 3, Queue: "ping-1", Handler: "endless.ping.v1", Size: 42})
	Ctx(ctx).Info().Msg("handled")

	entry := decodeLine(t, buf)
	if entry["worker"] != float64(3) {
		t.Errorf("worker = %v, want 3", entry["worker"])
	}
	if entry["queue"] != "ping-1" || entry["handler"] != "endless.ping.v1" {
		t.Errorf("entry = %v", entry)
	}
	if entry["record_size"] != float64(42) {
		t.Errorf("record_size = %v, want 42", entry["record_size"])
	}
	id, _ := entry["correlation_id"].(string)
	if len(id) != 8 || id != CorrelationIDFromContext(ctx) {
		t.Errorf("correlation_id = %q", id)
	}
}

func TestCtxWithoutRecord(t *testing.T) {
	buf := capture(t)
	Ctx(context.Background()).Info().Msg("plain")

	entry := decodeLine(t, buf)
	if _, ok := entry["worker"]; ok {
		t.Error("plain context logged a worker field")
	}
	if _, ok := entry["correlation_id"]; ok {
		t.Error("plain context logged a correlation_id")
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf).With().Str("component", "test").Logger())

	prevLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer zerolog.SetGlobalLevel(prevLevel)

	Ctx(ctx).Info().Msg("scoped")
	entry := decodeLine(t, &buf)
	if entry["component"] != "test" {
		t.Errorf("component = %v, want test", entry["component"])
	}
}
