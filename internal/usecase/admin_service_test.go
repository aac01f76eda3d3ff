package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/galclan/openfront-clanstats/internal/domain/match"
	"github.com/galclan/openfront-clanstats/internal/domain/playerstats"
	"github.com/galclan/openfront-clanstats/internal/infrastructure/repository/memory"
	usecasemock "github.com/galclan/openfront-clanstats/internal/mocks/usecase"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
)

type publicGamesStub struct {
	games []match.PublicGame
	max   int
}

func (s *publicGamesStub) ListPublicGames(_ context.Context, _, _ time.Time, limit int) ([]match.PublicGame, error) {
	s.max = limit
	return s.games, nil
}

func TestAdminService_ResetAllClearsEverything(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStatsStore()
	start := sweepNow.Add(-7 * 24 * time.Hour)
	backfillService := newTestBackfill(usecasemock.NewMatchProvider(t), store, BackfillConfig{Start: start})
	service := NewAdminService(store, backfillService, nil, logging.NewNop())

	applied, err := store.ApplyMatch(ctx, "g1", []playerstats.Increment{{Key: "REX", DisplayName: "[GAL] Rex", WinsFFA: 1}}, sweepNow)
	require.NoError(t, err)
	require.True(t, applied)
	require.NoError(t, store.Save(ctx, backfillService.SeedCursor(time.Time{}).Advance(sweepNow, sweepNow, 1, 1)))

	resetAt := sweepNow.Add(-24 * time.Hour)
	cursor, err := service.ResetAll(ctx, resetAt)
	require.NoError(t, err)
	require.True(t, cursor.Position.Equal(resetAt))
	require.False(t, cursor.Completed)

	marked, err := store.HasProcessed(ctx, "g1")
	require.NoError(t, err)
	require.False(t, marked)

	rows, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, rows)

	stored, err := store.Get(ctx)
	require.NoError(t, err)
	require.True(t, stored.Position.Equal(resetAt))

	// zero start falls back to the configured backfill start
	cursor, err = service.ResetAll(ctx, time.Time{})
	require.NoError(t, err)
	require.True(t, cursor.Position.Equal(start))
}

func TestAdminService_ListPublicGames(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStatsStore()
	backfillService := newTestBackfill(usecasemock.NewMatchProvider(t), store, BackfillConfig{})

	unconfigured := NewAdminService(store, backfillService, nil, logging.NewNop())
	_, err := unconfigured.ListPublicGames(ctx, sweepNow.Add(-time.Hour), sweepNow, 10)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}

	stub := &publicGamesStub{games: []match.PublicGame{{ID: "p1", Mode: "Free For All", Players: 40}}}
	service := NewAdminService(store, backfillService, stub, logging.NewNop())

	_, err = service.ListPublicGames(ctx, sweepNow.Add(-time.Hour), sweepNow, 0)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for max=0, got %v", err)
	}

	games, err := service.ListPublicGames(ctx, sweepNow.Add(-time.Hour), sweepNow, 25)
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, 25, stub.max)
}
