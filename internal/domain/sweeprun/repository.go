package sweeprun

import "context"

type Repository interface {
	Insert(ctx context.Context, run Run) error
	ListRecent(ctx context.Context, limit int) ([]Run, error)
	// Prune keeps the newest keep rows and returns how many were removed.
	Prune(ctx context.Context, keep int) (int64, error)
}
