package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/galclan/openfront-clanstats/internal/domain/playerstats"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type LeaderboardConfig struct {
	Scoring         playerstats.Scoring
	Merge           playerstats.MergeConfig
	DefaultPageSize int
	// RefreshInterval is the live loop period, used to predict the next
	// refresh.
	RefreshInterval time.Duration
}

type LeaderboardPage struct {
	Board playerstats.Board
	Page  playerstats.Page
	// NextRefreshAt is zero when the board has no data yet.
	NextRefreshAt time.Time
}

// Empty reports the "no data yet" state.
func (p LeaderboardPage) Empty() bool {
	return p.Page.TotalEntries == 0
}

// LeaderboardService builds ranked pages from the stored counters. It only
// reads.
type LeaderboardService struct {
	counters   playerstats.Repository
	normalizer playerstats.Normalizer
	cfg        LeaderboardConfig
}

func NewLeaderboardService(counters playerstats.Repository, normalizer playerstats.Normalizer, cfg LeaderboardConfig) *LeaderboardService {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = defaultPageSize
	}
	if cfg.Scoring == (playerstats.Scoring{}) {
		cfg.Scoring = playerstats.DefaultScoring()
	}
	return &LeaderboardService{counters: counters, normalizer: normalizer, cfg: cfg}
}

func (s *LeaderboardService) GetPage(ctx context.Context, rawBoard string, page, pageSize int) (LeaderboardPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetPage")
	defer span.End()

	board, err := playerstats.ParseBoard(rawBoard)
	if err != nil {
		if errors.Is(err, playerstats.ErrUnknownBoard) {
			return LeaderboardPage{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return LeaderboardPage{}, err
	}

	entries, err := s.Ranked(ctx, board)
	if err != nil {
		return LeaderboardPage{}, err
	}

	out := LeaderboardPage{
		Board: board,
		Page:  playerstats.Paginate(entries, page, s.pageSize(pageSize)),
	}
	if !out.Page.UpdatedAt.IsZero() && s.cfg.RefreshInterval > 0 {
		out.NextRefreshAt = out.Page.UpdatedAt.Add(s.cfg.RefreshInterval)
	}
	return out, nil
}

// Ranked returns the full ranked board without paging.
func (s *LeaderboardService) Ranked(ctx context.Context, board playerstats.Board) ([]playerstats.Entry, error) {
	rows, err := s.counters.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list player counters: %w", err)
	}
	buckets := playerstats.Merge(rows, s.normalizer, s.cfg.Merge)
	return playerstats.Rank(buckets, board, s.cfg.Scoring), nil
}

func (s *LeaderboardService) pageSize(requested int) int {
	if requested <= 0 {
		requested = s.cfg.DefaultPageSize
	}
	return min(max(requested, 1), maxPageSize)
}
