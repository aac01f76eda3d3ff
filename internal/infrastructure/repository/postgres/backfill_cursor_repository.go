package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
	qb "github.com/galclan/openfront-clanstats/internal/platform/querybuilder"
)

const (
	cursorRowID        = 1
	maxStoredErrorText = 2000
)

type BackfillCursorRepository struct {
	db *sqlx.DB
}

func NewBackfillCursorRepository(db *sqlx.DB) *BackfillCursorRepository {
	return &BackfillCursorRepository{db: db}
}

func (r *BackfillCursorRepository) Get(ctx context.Context) (backfill.Cursor, error) {
	query, args, err := qb.Select("*").From("backfill_cursor").
		Where(qb.Eq("id", cursorRowID)).
		ToSQL()
	if err != nil {
		return backfill.Cursor{}, fmt.Errorf("build get cursor query: %w", err)
	}

	var row backfillCursorTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return backfill.Cursor{}, backfill.ErrCursorNotFound
		}
		return backfill.Cursor{}, fmt.Errorf("get backfill cursor: %w", err)
	}

	return backfill.Cursor{
		Position:            row.Position.UTC(),
		Completed:           row.Completed,
		LastAttempt:         nullTimeValue(row.LastAttempt),
		LastError:           row.LastError,
		LastWindowSeen:      row.LastWindowSeen,
		LastWindowProcessed: row.LastWindowProcessed,
	}, nil
}

func (r *BackfillCursorRepository) Save(ctx context.Context, cursor backfill.Cursor) error {
	return saveCursor(ctx, r.db, cursor)
}

func saveCursor(ctx context.Context, exec sqlx.ExecerContext, cursor backfill.Cursor) error {
	builder, err := qb.InsertModel("backfill_cursor", backfillCursorTableModel{
		ID:                  cursorRowID,
		Position:            cursor.Position.UTC(),
		Completed:           cursor.Completed,
		LastAttempt:         nullableTime(cursor.LastAttempt),
		LastError:           truncateText(cursor.LastError, maxStoredErrorText),
		LastWindowSeen:      cursor.LastWindowSeen,
		LastWindowProcessed: cursor.LastWindowProcessed,
		UpdatedAt:           time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("build cursor model: %w", err)
	}

	query, args, err := builder.OnConflictUpdate([]string{"id"},
		"cursor_position = EXCLUDED.cursor_position",
		"completed = EXCLUDED.completed",
		"last_attempt = EXCLUDED.last_attempt",
		"last_error = EXCLUDED.last_error",
		"last_window_seen = EXCLUDED.last_window_seen",
		"last_window_processed = EXCLUDED.last_window_processed",
		"updated_at = EXCLUDED.updated_at",
	).ToSQL()
	if err != nil {
		return fmt.Errorf("build save cursor query: %w", err)
	}

	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save backfill cursor: %w", err)
	}
	return nil
}
