package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
	"github.com/galclan/openfront-clanstats/internal/domain/playerstats"
	"github.com/galclan/openfront-clanstats/internal/domain/sweeprun"
)

func TestStatsStore_ApplyMatchIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStatsStore()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	inc := []playerstats.Increment{{Key: "REX", DisplayName: "[GAL] Rex", WinsFFA: 1}}

	applied, err := store.ApplyMatch(ctx, "abc", inc, at)
	if err != nil || !applied {
		t.Fatalf("first apply: applied=%v err=%v", applied, err)
	}
	applied, err = store.ApplyMatch(ctx, "abc", inc, at.Add(time.Minute))
	if err != nil || applied {
		t.Fatalf("second apply must be a no-op: applied=%v err=%v", applied, err)
	}

	rows, _ := store.ListAll(ctx)
	if len(rows) != 1 || rows[0].WinsFFA != 1 || rows[0].DisplayName != "[GAL] Rex" || !rows[0].UpdatedAt.Equal(at) {
		t.Fatalf("unexpected counters: %+v", rows)
	}
	if ok, _ := store.HasProcessed(ctx, "abc"); !ok {
		t.Fatalf("expected abc to be processed")
	}
}

func TestStatsStore_MarkOnlyAndReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStatsStore()

	if _, err := store.Get(ctx); !errors.Is(err, backfill.ErrCursorNotFound) {
		t.Fatalf("expected cursor not found, got %v", err)
	}

	if _, err := store.ApplyMatch(ctx, "skip", nil, time.Now()); err != nil {
		t.Fatalf("mark only: %v", err)
	}
	if _, err := store.ApplyMatch(ctx, "g1", []playerstats.Increment{{Key: "A", LossesTeam: 1}}, time.Now()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	rows, _ := store.ListAll(ctx)
	if len(rows) != 1 {
		t.Fatalf("mark-only match must not create counters, got %+v", rows)
	}

	seed := backfill.Seed(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := store.ResetAll(ctx, seed); err != nil {
		t.Fatalf("reset: %v", err)
	}
	rows, _ = store.ListAll(ctx)
	if len(rows) != 0 {
		t.Fatalf("expected empty counters after reset, got %d", len(rows))
	}
	if ok, _ := store.HasProcessed(ctx, "g1"); ok {
		t.Fatalf("expected ledger to be cleared")
	}
	cursor, err := store.Get(ctx)
	if err != nil || !cursor.Position.Equal(seed.Position) || cursor.Completed {
		t.Fatalf("unexpected cursor after reset: %+v err=%v", cursor, err)
	}
}

func TestSweepRunRepository_ListAndPrune(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSweepRunRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		_ = repo.Insert(ctx, sweeprun.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Minute)})
	}

	recent, _ := repo.ListRecent(ctx, 2)
	if len(recent) != 2 || recent[0].ID != "c" || recent[1].ID != "b" {
		t.Fatalf("unexpected recent runs: %+v", recent)
	}

	removed, _ := repo.Prune(ctx, 1)
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	all, _ := repo.ListRecent(ctx, 0)
	if len(all) != 1 || all[0].ID != "c" {
		t.Fatalf("unexpected runs after prune: %+v", all)
	}
}
