package cache

import (
	"context"
	"testing"
	"time"

	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
	"github.com/galclan/openfront-clanstats/internal/domain/playerstats"
	"github.com/galclan/openfront-clanstats/internal/infrastructure/repository/memory"
	basecache "github.com/galclan/openfront-clanstats/internal/platform/cache"
)

type countingRepo struct {
	next  playerstats.Repository
	calls int
}

func (r *countingRepo) ListAll(ctx context.Context) ([]playerstats.Counters, error) {
	r.calls++
	return r.next.ListAll(ctx)
}

func TestStatsStore_InvalidatesCountersOnWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStatsStore()
	shared := basecache.NewStore(time.Minute)
	counting := &countingRepo{next: store}
	reads := NewPlayerCounterRepository(counting, shared)
	writes := NewStatsStore(store, shared)

	if _, err := writes.ApplyMatch(ctx, "g1", []playerstats.Increment{{Key: "REX", WinsFFA: 1}}, time.Now()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	rows, _ := reads.ListAll(ctx)
	_, _ = reads.ListAll(ctx)
	if len(rows) != 1 || counting.calls != 1 {
		t.Fatalf("expected one cached load, rows=%d calls=%d", len(rows), counting.calls)
	}

	if _, err := writes.ApplyMatch(ctx, "g2", []playerstats.Increment{{Key: "REX", LossesFFA: 1}}, time.Now()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	rows, _ = reads.ListAll(ctx)
	if counting.calls != 2 || rows[0].LossesFFA != 1 {
		t.Fatalf("expected reload after write, calls=%d rows=%+v", counting.calls, rows)
	}

	// already-processed matches leave the cache alone
	if _, err := writes.ApplyMatch(ctx, "g2", []playerstats.Increment{{Key: "REX", LossesFFA: 1}}, time.Now()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	_, _ = reads.ListAll(ctx)
	if counting.calls != 2 {
		t.Fatalf("expected cache hit after no-op apply, calls=%d", counting.calls)
	}

	if err := writes.ResetAll(ctx, backfill.Seed(time.Now())); err != nil {
		t.Fatalf("reset: %v", err)
	}
	rows, _ = reads.ListAll(ctx)
	if len(rows) != 0 || counting.calls != 3 {
		t.Fatalf("expected empty reload after reset, rows=%d calls=%d", len(rows), counting.calls)
	}
}
