package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
	"github.com/galclan/openfront-clanstats/internal/domain/match"
	"github.com/galclan/openfront-clanstats/internal/infrastructure/repository/memory"
	backfillmock "github.com/galclan/openfront-clanstats/internal/mocks/domain/backfill"
	usecasemock "github.com/galclan/openfront-clanstats/internal/mocks/usecase"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
)

func newTestBackfill(provider MatchProvider, store *memory.StatsStore, cfg BackfillConfig) *BackfillService {
	ingestion := newTestIngestion(provider, store, nil)
	return NewBackfillService(store, ingestion, cfg, logging.NewNop()).
		WithClock(func() time.Time { return sweepNow })
}

func TestBackfillService_StepsUntilCompleted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := usecasemock.NewMatchProvider(t)
	store := memory.NewStatsStore()
	start := sweepNow.Add(-(5*24*time.Hour + 3*time.Hour))
	service := newTestBackfill(provider, store, BackfillConfig{Start: start, Window: 48 * time.Hour})

	provider.
		On("FetchClanSessions", mock.Anything, "GAL", mock.Anything, mock.Anything).
		Return([]match.Session{}, nil)

	cursor, err := service.Initialize(ctx)
	require.NoError(t, err)
	require.True(t, cursor.Position.Equal(start))

	want := backfill.StepsToComplete(start, sweepNow, 48*time.Hour)
	require.Equal(t, 3, want)

	status, err := service.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, want, status.RemainingSteps)

	prev := start
	for i := 0; i < want; i++ {
		step, err := service.Step(ctx)
		require.NoError(t, err)
		if step.Status != backfill.StepAdvanced {
			t.Fatalf("step %d: unexpected status %q", i, step.Status)
		}
		if step.Cursor.Position.Before(prev) {
			t.Fatalf("step %d moved the cursor backwards", i)
		}
		if !step.WindowStart.Equal(prev) {
			t.Fatalf("step %d: window must start at the cursor, got %s", i, step.WindowStart)
		}
		prev = step.Cursor.Position
	}

	if !prev.Equal(sweepNow) {
		t.Fatalf("expected cursor at now, got %s", prev)
	}

	step, err := service.Step(ctx)
	require.NoError(t, err)
	require.Equal(t, backfill.StepAlreadyComplete, step.Status)
	require.True(t, step.Cursor.Completed)
}

func TestBackfillService_FailedStepIsRetried(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := usecasemock.NewMatchProvider(t)
	store := memory.NewStatsStore()
	start := sweepNow.Add(-72 * time.Hour)
	service := newTestBackfill(provider, store, BackfillConfig{Start: start})

	provider.
		On("FetchClanSessions", mock.Anything, "GAL", start, start.Add(backfill.DefaultWindow)).
		Return(nil, ErrTransientFetch).
		Once()
	provider.
		On("FetchClanSessions", mock.Anything, "GAL", start, start.Add(backfill.DefaultWindow)).
		Return([]match.Session{}, nil).
		Once()

	_, err := service.Initialize(ctx)
	require.NoError(t, err)

	failed, err := service.Step(ctx)
	require.NoError(t, err)
	require.Equal(t, backfill.StepFailed, failed.Status)
	require.ErrorIs(t, failed.Err, ErrTransientFetch)
	if !failed.Cursor.Position.Equal(start) || failed.Cursor.LastError == "" {
		t.Fatalf("failure must keep the cursor and record the error: %+v", failed.Cursor)
	}

	stored, err := store.Get(ctx)
	require.NoError(t, err)
	require.True(t, stored.Position.Equal(start))

	retried, err := service.Step(ctx)
	require.NoError(t, err)
	require.Equal(t, backfill.StepAdvanced, retried.Status)
	require.True(t, retried.WindowStart.Equal(start))
	require.Empty(t, retried.Cursor.LastError)
	require.False(t, retried.Cursor.Completed)
}

func TestBackfillService_InitializeSkipHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := usecasemock.NewMatchProvider(t)
	store := memory.NewStatsStore()
	service := newTestBackfill(provider, store, BackfillConfig{Start: sweepNow.AddDate(0, -1, 0), SkipHistory: true})

	provider.
		On("FetchClanSessions", mock.Anything, "GAL", sweepNow.Add(-defaultLiveWindow), sweepNow).
		Return([]match.Session{{GameID: "recent", GroupWon: true, Mode: "Team"}}, nil).
		Once()

	cursor, err := service.Initialize(ctx)
	require.NoError(t, err)
	if !cursor.Completed || !cursor.Position.Equal(sweepNow) {
		t.Fatalf("expected completed cursor at now, got %+v", cursor)
	}

	marked, err := store.HasProcessed(ctx, "recent")
	require.NoError(t, err)
	require.True(t, marked)

	// already initialized: no second history pass
	again, err := service.Initialize(ctx)
	require.NoError(t, err)
	require.True(t, again.Completed)

	step, err := service.Step(ctx)
	require.NoError(t, err)
	require.Equal(t, backfill.StepAlreadyComplete, step.Status)
}

func TestBackfillService_CursorReadError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cursors := backfillmock.NewRepository(t)
	ingestion := newTestIngestion(usecasemock.NewMatchProvider(t), memory.NewStatsStore(), nil)
	service := NewBackfillService(cursors, ingestion, BackfillConfig{Start: sweepNow.Add(-time.Hour)}, logging.NewNop())

	cursors.On("Get", mock.Anything).Return(backfill.Cursor{}, errors.New("db down")).Twice()

	_, err := service.Step(ctx)
	require.ErrorContains(t, err, "get backfill cursor")

	_, err = service.Status(ctx)
	require.ErrorContains(t, err, "db down")
}

func TestBackfillService_SaveErrorIsReturned(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := usecasemock.NewMatchProvider(t)
	cursors := backfillmock.NewRepository(t)
	ingestion := newTestIngestion(provider, memory.NewStatsStore(), nil)
	start := sweepNow.Add(-time.Hour)
	service := NewBackfillService(cursors, ingestion, BackfillConfig{Start: start}, logging.NewNop()).
		WithClock(func() time.Time { return sweepNow })

	cursors.On("Get", mock.Anything).Return(backfill.Seed(start), nil).Once()
	cursors.
		On("Save", mock.Anything, mock.MatchedBy(func(c backfill.Cursor) bool { return c.Completed })).
		Return(errors.New("disk full")).
		Once()
	provider.
		On("FetchClanSessions", mock.Anything, "GAL", start, sweepNow).
		Return([]match.Session{}, nil).
		Once()

	step, err := service.Step(ctx)
	require.ErrorContains(t, err, "save backfill cursor")
	require.Equal(t, backfill.StepAdvanced, step.Status)
}
