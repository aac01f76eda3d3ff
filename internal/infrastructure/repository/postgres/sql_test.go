package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("get cursor: %w", sql.ErrNoRows)) {
		t.Fatalf("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(fmt.Errorf("pq: relation backfill_cursor does not exist")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestNullableTime(t *testing.T) {
	t.Run("zero time is null", func(t *testing.T) {
		if got := nullableTime(time.Time{}); got.Valid {
			t.Fatalf("expected invalid null time, got %+v", got)
		}
	})

	t.Run("round trips as utc", func(t *testing.T) {
		loc := time.FixedZone("UTC+7", 7*3600)
		in := time.Date(2026, 2, 17, 11, 0, 0, 0, loc)
		got := nullTimeValue(nullableTime(in))
		if !got.Equal(in) || got.Location() != time.UTC {
			t.Fatalf("unexpected round trip: %s", got)
		}
	})
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("  abcdef  ", 3); got != "abc" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateText("abc", 0); got != "abc" {
		t.Fatalf("zero limit must keep text, got %q", got)
	}

	// "é" is two bytes; a limit landing between them backs off to the rune start
	got := truncateText(strings.Repeat("x", 9)+"é!", 10)
	if got != strings.Repeat("x", 9) || !utf8.ValidString(got) {
		t.Fatalf("unexpected rune-safe truncation: %q", got)
	}
	if got := truncateText("bad\xffbyte", 0); !utf8.ValidString(got) {
		t.Fatalf("invalid bytes must be replaced, got %q", got)
	}
}

func TestSkipReasonsCodec(t *testing.T) {
	raw, err := encodeSkipReasons(map[string]int{"no_members": 2})
	if err != nil {
		t.Fatalf("encode skip reasons: %v", err)
	}
	got := decodeSkipReasons(raw)
	if got["no_members"] != 2 {
		t.Fatalf("unexpected decoded reasons: %+v", got)
	}

	empty, err := encodeSkipReasons(nil)
	if err != nil || empty != "{}" {
		t.Fatalf("unexpected empty encoding: %q err=%v", empty, err)
	}
	if decodeSkipReasons("not json") != nil {
		t.Fatalf("expected nil for malformed payload")
	}
}
