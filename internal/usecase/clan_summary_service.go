package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/galclan/openfront-clanstats/internal/domain/clan"
	"github.com/galclan/openfront-clanstats/internal/domain/match"
	"github.com/galclan/openfront-clanstats/internal/platform/cache"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
)

const (
	clanLeaderboardCacheKey = "clan:leaderboard"
	defaultTopClans         = 10
	maxTopClans             = 100
)

// ClanSummary is the tracked clan's row of the public clan leaderboard.
type ClanSummary struct {
	Standing    clan.Standing
	Position    int
	TotalClans  int
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// ClanTable is the head of the clan leaderboard. TrackedPosition is computed
// over the whole table, so it can exceed len(Top); 0 means absent.
type ClanTable struct {
	Top             []clan.Standing
	TrackedTag      string
	TrackedPosition int
	TotalClans      int
	PeriodStart     time.Time
	PeriodEnd       time.Time
}

// ClanSummaryService answers read-only questions straight from the API,
// outside the ingestion pipeline.
type ClanSummaryService struct {
	directory  ClanDirectory
	cache      *cache.Store
	classifier match.Classifier
	logger     *logging.Logger
}

// NewClanSummaryService caches the clan leaderboard in store; a nil store
// fetches on every call.
func NewClanSummaryService(directory ClanDirectory, store *cache.Store, clanTag string, logger *logging.Logger) *ClanSummaryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ClanSummaryService{
		directory:  directory,
		cache:      store,
		classifier: match.NewClassifier(clanTag),
		logger:     logger,
	}
}

func (s *ClanSummaryService) Summary(ctx context.Context) (ClanSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClanSummaryService.Summary")
	defer span.End()

	board, err := s.leaderboard(ctx)
	if err != nil {
		return ClanSummary{}, err
	}

	standing, ok := board.Find(s.classifier.Tag())
	if !ok {
		return ClanSummary{}, fmt.Errorf("%w: clan %s is not on the clan leaderboard", ErrNotFound, s.classifier.Tag())
	}
	return ClanSummary{
		Standing:    standing,
		Position:    clan.Position(board.Ranked(), standing.Tag),
		TotalClans:  len(board.Clans),
		PeriodStart: board.Start,
		PeriodEnd:   board.End,
	}, nil
}

// TopClans returns the best top clans by weighted W/L ratio. top <= 0 means
// the default of 10.
func (s *ClanSummaryService) TopClans(ctx context.Context, top int) (ClanTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClanSummaryService.TopClans")
	defer span.End()

	if top <= 0 {
		top = defaultTopClans
	}
	if top > maxTopClans {
		return ClanTable{}, fmt.Errorf("%w: top must be <= %d", ErrInvalidInput, maxTopClans)
	}

	board, err := s.leaderboard(ctx)
	if err != nil {
		return ClanTable{}, err
	}

	ranked := board.Ranked()
	return ClanTable{
		Top:             ranked[:min(top, len(ranked))],
		TrackedTag:      s.classifier.Tag(),
		TrackedPosition: clan.Position(ranked, s.classifier.Tag()),
		TotalClans:      len(ranked),
		PeriodStart:     board.Start,
		PeriodEnd:       board.End,
	}, nil
}

// GameLineup fetches one game and splits it into clan members, winners and
// opposing clans.
func (s *ClanSummaryService) GameLineup(ctx context.Context, gameID string) (match.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClanSummaryService.GameLineup")
	defer span.End()

	id := strings.TrimSpace(gameID)
	if id == "" {
		return match.Lineup{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	game, err := s.directory.FetchGame(ctx, id)
	if err != nil {
		return match.Lineup{}, err
	}
	if len(game.Participants) == 0 {
		return match.Lineup{}, fmt.Errorf("%w: game %s has no player list", ErrNotFound, id)
	}
	if game.ID == "" {
		game.ID = id
	}
	return s.classifier.Lineup(game), nil
}

func (s *ClanSummaryService) PlayerSessions(ctx context.Context, playerID string) ([]match.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClanSummaryService.PlayerSessions")
	defer span.End()

	id := strings.TrimSpace(playerID)
	if id == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	return s.directory.FetchPlayerSessions(ctx, id)
}

func (s *ClanSummaryService) leaderboard(ctx context.Context) (clan.Leaderboard, error) {
	load := func(ctx context.Context) (any, error) {
		board, err := s.directory.FetchClanLeaderboard(ctx)
		if err != nil {
			return nil, err
		}
		s.logger.DebugContext(ctx, "clan leaderboard fetched", "clans", len(board.Clans))
		return board, nil
	}

	var (
		v   any
		err error
	)
	if s.cache != nil {
		v, err = s.cache.GetOrLoad(ctx, clanLeaderboardCacheKey, load)
	} else {
		v, err = load(ctx)
	}
	if err != nil {
		return clan.Leaderboard{}, fmt.Errorf("fetch clan leaderboard: %w", err)
	}

	board, _ := v.(clan.Leaderboard)
	return board, nil
}
