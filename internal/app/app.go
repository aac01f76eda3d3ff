package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/galclan/openfront-clanstats/external/openfront"
	"github.com/galclan/openfront-clanstats/internal/config"
	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
	"github.com/galclan/openfront-clanstats/internal/domain/playerstats"
	"github.com/galclan/openfront-clanstats/internal/domain/sweeprun"
	"github.com/galclan/openfront-clanstats/internal/infrastructure/repository/cache"
	"github.com/galclan/openfront-clanstats/internal/infrastructure/repository/memory"
	"github.com/galclan/openfront-clanstats/internal/infrastructure/repository/postgres"
	"github.com/galclan/openfront-clanstats/internal/interfaces/httpapi"
	basecache "github.com/galclan/openfront-clanstats/internal/platform/cache"
	"github.com/galclan/openfront-clanstats/internal/platform/id"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
	"github.com/galclan/openfront-clanstats/internal/platform/resilience"
	"github.com/galclan/openfront-clanstats/internal/usecase"
)

// Container holds the wired services shared by the long-running process and
// the operator CLI.
type Container struct {
	Config config.Config
	Logger *logging.Logger

	OpenFront *openfront.Client
	Ranking   *openfront.RankingClient

	Ingestion   *usecase.IngestionService
	Backfill    *usecase.BackfillService
	Leaderboard *usecase.LeaderboardService
	Official    *usecase.OfficialRankingService
	Clans       *usecase.ClanSummaryService
	Journal     *usecase.SweepJournal
	Admin       *usecase.AdminService
	Scheduler   *usecase.Scheduler

	db *sqlx.DB
}

type storage struct {
	stats    usecase.StatsStore
	counters playerstats.Repository
	cursors  backfill.Repository
	runs     sweeprun.Repository
}

// Build wires storage, the OpenFront clients and every service from cfg.
func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	c := &Container{Config: cfg, Logger: logger}

	store, err := c.buildStorage(ctx)
	if err != nil {
		return nil, err
	}

	c.OpenFront = openfront.NewClient(openfront.ClientConfig{
		BaseURL:    cfg.OpenFrontBaseURL,
		APIKey:     cfg.OpenFrontAPIKey,
		UserAgent:  cfg.OpenFrontUserAgent,
		Timeout:    cfg.OpenFrontTimeout,
		MaxRetries: cfg.OpenFrontMaxRetries,
		Logger:     logger.Named("openfront"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.OpenFrontCircuitEnabled,
			FailureThreshold: cfg.OpenFrontCircuitFailureCount,
			OpenTimeout:      cfg.OpenFrontCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.OpenFrontCircuitHalfOpenMaxReq,
		},
	})
	c.Ranking = openfront.NewRankingClient(openfront.RankingClientConfig{
		URL:       cfg.OneV1LeaderboardURL,
		APIKey:    cfg.OpenFrontAPIKey,
		UserAgent: cfg.OpenFrontUserAgent,
		Timeout:   cfg.OpenFrontTimeout,
		Logger:    logger.Named("ranking"),
	})

	normalizer := playerstats.NewNormalizer(cfg.ClanTag, cfg.ClanDisplay, cfg.AliasPrefixes)

	c.Journal = usecase.NewSweepJournal(store.runs, id.NewUUIDGenerator(), cfg.SweepRunRetention, logger)
	c.Ingestion = usecase.NewIngestionService(c.OpenFront, store.stats, normalizer, c.Journal, usecase.IngestionConfig{
		ClanTag:              cfg.ClanTag,
		MaxSessionsPerWindow: cfg.SessionsMaxPerWindow,
		DetailWorkers:        cfg.DetailFetchWorkers,
		LiveWindow:           cfg.LiveWindow,
	}, logger)
	c.Backfill = usecase.NewBackfillService(store.cursors, c.Ingestion, usecase.BackfillConfig{
		Start:       cfg.BackfillStart,
		Window:      cfg.BackfillWindow,
		SkipHistory: cfg.BackfillSkipHistory,
	}, logger)
	c.Leaderboard = usecase.NewLeaderboardService(store.counters, normalizer, usecase.LeaderboardConfig{
		Scoring: playerstats.Scoring{
			RatioWeight: cfg.ScoreRatioWeight,
			GamesWeight: cfg.ScoreGamesWeight,
			MinGames:    int64(cfg.LeaderboardMinGames),
		},
		Merge: playerstats.MergeConfig{
			MaxLengthDiff: cfg.FuzzyMergeMaxDiff,
			MinLength:     cfg.FuzzyMergeMinLength,
		},
		DefaultPageSize: cfg.LeaderboardPageSize,
		RefreshInterval: cfg.JobLiveInterval,
	})
	c.Official = usecase.NewOfficialRankingService(
		c.Ranking,
		usecase.NewRankingCache(cfg.OneV1RefreshInterval, nil),
		cfg.ClanTag,
		cfg.OneV1Limit,
		logger,
	)
	c.Clans = usecase.NewClanSummaryService(c.OpenFront, basecache.NewStore(cfg.ClanLeaderboardTTL), cfg.ClanTag, logger)
	c.Admin = usecase.NewAdminService(store.stats, c.Backfill, c.OpenFront, logger)
	c.Scheduler = usecase.NewScheduler(c.Backfill, c.Ingestion, usecase.SchedulerConfig{
		Enabled:          cfg.JobsEnabled,
		BackfillInterval: cfg.JobBackfillInterval,
		LiveInterval:     cfg.JobLiveInterval,
	}, logger)

	return c, nil
}

func (c *Container) buildStorage(ctx context.Context) (storage, error) {
	var out storage

	switch c.Config.StoreDriver {
	case config.StoreDriverMemory:
		c.Logger.Warn("using in-memory store, statistics are lost on restart")
		mem := memory.NewStatsStore()
		out = storage{stats: mem, counters: mem, cursors: mem, runs: memory.NewSweepRunRepository()}
	case config.StoreDriverPostgres:
		db, err := OpenDatabase(ctx, c.Config)
		if err != nil {
			return storage{}, err
		}
		c.db = db
		out = storage{
			stats:    postgres.NewStatsStore(db),
			counters: postgres.NewPlayerCounterRepository(db),
			cursors:  postgres.NewBackfillCursorRepository(db),
			runs:     postgres.NewSweepRunRepository(db),
		}
	default:
		return storage{}, fmt.Errorf("%w: unknown store driver %q", config.ErrInvalidConfig, c.Config.StoreDriver)
	}

	if c.Config.CacheEnabled {
		counterCache := basecache.NewStore(c.Config.CacheTTL)
		out.counters = cache.NewPlayerCounterRepository(out.counters, counterCache)
		out.stats = cache.NewStatsStore(out.stats, counterCache)
	}
	return out, nil
}

// NewHTTPServer builds the operator HTTP surface.
func (c *Container) NewHTTPServer() (*http.Server, error) {
	if c.Config.HTTPAddr == "" {
		return nil, errors.New("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(c.Leaderboard, c.Official, c.Clans, c.Backfill, c.Ingestion, c.Journal, c.Admin, c.Logger)
	router := httpapi.NewRouter(handler, c.Logger.Named("http"), c.Config.InternalJobToken)

	return &http.Server{
		Addr:         c.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  c.Config.ReadTimeout,
		WriteTimeout: c.Config.WriteTimeout,
	}, nil
}

// Close releases the database handle when one was opened.
func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
