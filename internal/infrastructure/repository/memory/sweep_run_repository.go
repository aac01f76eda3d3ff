package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/galclan/openfront-clanstats/internal/domain/sweeprun"
)

type SweepRunRepository struct {
	mu   sync.RWMutex
	runs []sweeprun.Run
}

func NewSweepRunRepository() *SweepRunRepository {
	return &SweepRunRepository{}
}

func (r *SweepRunRepository) Insert(_ context.Context, run sweeprun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.runs {
		if existing.ID == run.ID {
			return nil
		}
	}
	r.runs = append(r.runs, run)
	sort.SliceStable(r.runs, func(i, j int) bool {
		return r.runs[i].StartedAt.After(r.runs[j].StartedAt)
	})
	return nil
}

func (r *SweepRunRepository) ListRecent(_ context.Context, limit int) ([]sweeprun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.runs) {
		limit = len(r.runs)
	}
	return append([]sweeprun.Run(nil), r.runs[:limit]...), nil
}

func (r *SweepRunRepository) Prune(_ context.Context, keep int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if keep <= 0 || len(r.runs) <= keep {
		return 0, nil
	}
	removed := int64(len(r.runs) - keep)
	r.runs = append([]sweeprun.Run(nil), r.runs[:keep]...)
	return removed, nil
}
