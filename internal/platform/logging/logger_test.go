package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapFields_PairsAndErrors(t *testing.T) {
	t.Parallel()

	fields := zapFields([]any{"match_id", "abc", "err", errors.New("boom"), "dangling"})
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[0].Key != "match_id" || fields[0].Type != zapcore.StringType {
		t.Fatalf("unexpected first field: %+v", fields[0])
	}
	if fields[1].Key != "err" || fields[1].Type != zapcore.ErrorType {
		t.Fatalf("expected named error field, got %+v", fields[1])
	}
	if fields[2].Key != "dangling" {
		t.Fatalf("unexpected trailing field key %q", fields[2].Key)
	}
}

func TestLogger_NamedAndWith(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core)).Named("backfill").With("clan", "GAL")
	logger.InfoContext(context.Background(), "step done", "processed", 3)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].LoggerName != "backfill" {
		t.Fatalf("unexpected logger name %q", entries[0].LoggerName)
	}
	ctx := entries[0].ContextMap()
	if ctx["clan"] != "GAL" || ctx["processed"] != int64(3) {
		t.Fatalf("unexpected context: %#v", ctx)
	}
}

func TestNewConsole_WritesToWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsole(&buf, LevelInfo)
	logger.Debug("hidden")
	logger.Info("visible", "page", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, `"page": 2`) {
		t.Fatalf("unexpected console output: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
