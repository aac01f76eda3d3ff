package postgres

import (
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullTimeValue(v sql.NullTime) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return v.Time.UTC()
}

// truncateText keeps stored error text bounded and valid UTF-8; TEXT
// columns reject anything else.
func truncateText(value string, limit int) string {
	value = strings.ToValidUTF8(strings.TrimSpace(value), "\uFFFD")
	if limit <= 0 || len(value) <= limit {
		return value
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}
