package backfill

import "context"

type Repository interface {
	// Get returns ErrCursorNotFound before the first Save.
	Get(ctx context.Context) (Cursor, error)
	Save(ctx context.Context, cursor Cursor) error
}
