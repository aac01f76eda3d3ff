package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/galclan/openfront-clanstats/internal/domain/match"
	"github.com/galclan/openfront-clanstats/internal/infrastructure/repository/memory"
	usecasemock "github.com/galclan/openfront-clanstats/internal/mocks/usecase"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
)

func TestScheduler_DisabledWaitsForCancel(t *testing.T) {
	t.Parallel()

	store := memory.NewStatsStore()
	backfillService := newTestBackfill(usecasemock.NewMatchProvider(t), store, BackfillConfig{})
	scheduler := NewScheduler(backfillService, backfillService.ingestion, SchedulerConfig{}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scheduler.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestScheduler_RunsBothLoopsUntilCancelled(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewMatchProvider(t)
	store := memory.NewStatsStore()
	runs := memory.NewSweepRunRepository()
	ingestion := newTestIngestion(provider, store, runs)
	backfillService := NewBackfillService(store, ingestion, BackfillConfig{Start: sweepNow.Add(-96 * time.Hour)}, logging.NewNop()).
		WithClock(func() time.Time { return sweepNow })
	scheduler := NewScheduler(backfillService, ingestion, SchedulerConfig{
		Enabled:          true,
		BackfillInterval: 10 * time.Millisecond,
		LiveInterval:     10 * time.Millisecond,
	}, logging.NewNop())

	provider.
		On("FetchClanSessions", mock.Anything, "GAL", mock.Anything, mock.Anything).
		Return([]match.Session{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- scheduler.Run(ctx) }()

	require.Eventually(t, func() bool {
		cursor, err := store.Get(context.Background())
		return err == nil && cursor.Completed
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		recent, err := runs.ListRecent(context.Background(), 50)
		if err != nil {
			return false
		}
		var live, backfills bool
		for _, run := range recent {
			live = live || run.Kind == "live"
			backfills = backfills || run.Kind == "backfill"
		}
		return live && backfills
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestScheduler_InitializeFailureIsRetriedNotFatal(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewMatchProvider(t)
	store := memory.NewStatsStore()
	runs := memory.NewSweepRunRepository()
	ingestion := newTestIngestion(provider, store, runs)
	backfillService := NewBackfillService(store, ingestion, BackfillConfig{
		Start:       sweepNow.AddDate(0, -1, 0),
		SkipHistory: true,
	}, logging.NewNop()).WithClock(func() time.Time { return sweepNow })
	scheduler := NewScheduler(backfillService, ingestion, SchedulerConfig{
		Enabled:          true,
		BackfillInterval: 10 * time.Millisecond,
	}, logging.NewNop())

	seedStart := sweepNow.Add(-defaultLiveWindow)
	provider.
		On("FetchClanSessions", mock.Anything, "GAL", seedStart, sweepNow).
		Return(nil, fmt.Errorf("%w: status=503", ErrTransientFetch)).
		Once()
	provider.
		On("FetchClanSessions", mock.Anything, "GAL", seedStart, sweepNow).
		Return([]match.Session{{GameID: "recent", GroupWon: true, Mode: "Team"}}, nil).
		Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- scheduler.Run(ctx) }()

	require.Eventually(t, func() bool {
		cursor, err := store.Get(context.Background())
		return err == nil && cursor.Completed
	}, 2*time.Second, 10*time.Millisecond)

	select {
	case err := <-done:
		t.Fatalf("scheduler returned before cancel: %v", err)
	default:
	}

	marked, err := store.HasProcessed(context.Background(), "recent")
	require.NoError(t, err)
	require.True(t, marked)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
