package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/galclan/openfront-clanstats/internal/domain/playerstats"
	playerstatsmock "github.com/galclan/openfront-clanstats/internal/mocks/domain/playerstats"
)

func TestLeaderboardService_GetPage_MergesAndRanks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := playerstatsmock.NewRepository(t)
	normalizer := playerstats.NewNormalizer("GAL", "", nil)
	service := NewLeaderboardService(repo, normalizer, LeaderboardConfig{
		Merge:           playerstats.MergeConfig{MaxLengthDiff: 2, MinLength: 4},
		RefreshInterval: 10 * time.Minute,
	})

	updated := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	repo.
		On("ListAll", mock.Anything).
		Return([]playerstats.Counters{
			{Key: "REX", DisplayName: "[GAL] Rex", WinsFFA: 2, LossesFFA: 1, UpdatedAt: updated},
			{Key: "REX1", DisplayName: "[GAL] Rex1", WinsFFA: 1, UpdatedAt: updated.Add(time.Hour)},
			{Key: "NOVA", DisplayName: "[GAL] Nova", LossesFFA: 3, UpdatedAt: updated},
			{Key: "IDLE", DisplayName: "[GAL] Idle", WinsDuel: 4, UpdatedAt: updated},
		}, nil).
		Once()

	got, err := service.GetPage(ctx, "FFA", 1, 0)
	require.NoError(t, err)
	require.Equal(t, playerstats.BoardFFA, got.Board)
	require.Equal(t, 2, got.Page.TotalEntries)
	require.Equal(t, defaultPageSize, got.Page.PageSize)

	top := got.Page.Entries[0]
	if top.Key != "REX" || top.Wins != 3 || top.Losses != 1 || top.Rank != 1 {
		t.Fatalf("unexpected top entry: %+v", top)
	}
	if !got.NextRefreshAt.Equal(updated.Add(time.Hour + 10*time.Minute)) {
		t.Fatalf("unexpected next refresh: %s", got.NextRefreshAt)
	}
}

func TestLeaderboardService_GetPage_ClampsPageSize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := playerstatsmock.NewRepository(t)
	service := NewLeaderboardService(repo, playerstats.NewNormalizer("GAL", "", nil), LeaderboardConfig{})

	rows := make([]playerstats.Counters, 0, 150)
	for i := range 150 {
		rows = append(rows, playerstats.Counters{Key: fmt.Sprintf("PLAYER %03d", i), WinsTeam: int64(i % 7), LossesTeam: 1})
	}
	repo.On("ListAll", mock.Anything).Return(rows, nil).Twice()

	big, err := service.GetPage(ctx, "team", 1, 500)
	require.NoError(t, err)
	require.Equal(t, maxPageSize, big.Page.PageSize)
	require.Len(t, big.Page.Entries, maxPageSize)
	require.Equal(t, 2, big.Page.TotalPages)

	last, err := service.GetPage(ctx, "team", 99, 100)
	require.NoError(t, err)
	require.Equal(t, 2, last.Page.Page)
	require.Len(t, last.Page.Entries, 50)
}

func TestLeaderboardService_GetPage_EmptyAndInvalidBoard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := playerstatsmock.NewRepository(t)
	service := NewLeaderboardService(repo, playerstats.NewNormalizer("GAL", "", nil), LeaderboardConfig{RefreshInterval: time.Minute})

	_, err := service.GetPage(ctx, "elo", 1, 10)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	repo.On("ListAll", mock.Anything).Return(nil, nil).Once()
	empty, err := service.GetPage(ctx, "", 1, 10)
	require.NoError(t, err)
	require.True(t, empty.Empty())
	require.True(t, empty.NextRefreshAt.IsZero())
	require.Equal(t, 1, empty.Page.TotalPages)
}

func TestLeaderboardService_GetPage_RepositoryError(t *testing.T) {
	t.Parallel()

	repo := playerstatsmock.NewRepository(t)
	service := NewLeaderboardService(repo, playerstats.NewNormalizer("GAL", "", nil), LeaderboardConfig{})
	repo.On("ListAll", mock.Anything).Return(nil, errors.New("timeout")).Once()

	_, err := service.GetPage(context.Background(), "overall", 1, 10)
	require.ErrorContains(t, err, "list player counters")
}
