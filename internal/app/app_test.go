package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/galclan/openfront-clanstats/internal/config"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:               config.EnvDev,
		HTTPAddr:             ":0",
		StoreDriver:          config.StoreDriverMemory,
		CacheEnabled:         true,
		CacheTTL:             time.Minute,
		ClanTag:              "GAL",
		ClanDisplay:          "[GAL]",
		BackfillStart:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BackfillWindow:       48 * time.Hour,
		JobBackfillInterval:  2 * time.Minute,
		JobLiveInterval:      5 * time.Minute,
		LiveWindow:           6 * time.Hour,
		OneV1RefreshInterval: 10 * time.Minute,
		OneV1Limit:           100,
		ClanLeaderboardTTL:   5 * time.Minute,
		SweepRunRetention:    10,
		LeaderboardPageSize:  20,
		InternalJobToken:     "token",
	}
}

func TestBuild_MemoryDriver(t *testing.T) {
	t.Parallel()

	c, err := Build(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Close()) })

	require.NotNil(t, c.Ingestion)
	require.NotNil(t, c.Backfill)
	require.NotNil(t, c.Leaderboard)
	require.NotNil(t, c.Official)
	require.NotNil(t, c.Clans)
	require.NotNil(t, c.Scheduler)

	status, err := c.Backfill.Status(context.Background())
	require.NoError(t, err)
	require.False(t, status.Initialized)

	srv, err := c.NewHTTPServer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBuild_UnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.StoreDriver = "bolt"

	_, err := Build(context.Background(), cfg, logging.NewNop())
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	c, err := Build(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)

	if _, err := c.NewHTTPServer(); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
