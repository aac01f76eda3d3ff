package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
	"github.com/galclan/openfront-clanstats/internal/domain/match"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
)

// AdminService holds the destructive and diagnostic operator operations.
type AdminService struct {
	store    StatsStore
	backfill *BackfillService
	games    PublicGameLister
	logger   *logging.Logger
}

func NewAdminService(store StatsStore, backfillService *BackfillService, games PublicGameLister, logger *logging.Logger) *AdminService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminService{store: store, backfill: backfillService, games: games, logger: logger}
}

// ResetAll clears the ledger and counters and reseeds the cursor at start,
// or at the configured start when start is zero.
func (s *AdminService) ResetAll(ctx context.Context, start time.Time) (backfill.Cursor, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.ResetAll")
	defer span.End()

	s.backfill.mu.Lock()
	defer s.backfill.mu.Unlock()

	cursor := s.backfill.SeedCursor(start)
	if err := s.store.ResetAll(ctx, cursor); err != nil {
		return backfill.Cursor{}, fmt.Errorf("reset stats: %w", err)
	}
	s.logger.WarnContext(ctx, "stats reset", "cursor", cursor.Position)
	return cursor, nil
}

// ListPublicGames is a diagnostic view of the public game listing.
func (s *AdminService) ListPublicGames(ctx context.Context, start, end time.Time, limit int) ([]match.PublicGame, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.ListPublicGames")
	defer span.End()

	if s.games == nil {
		return nil, fmt.Errorf("%w: public game listing is not configured", ErrDependencyUnavailable)
	}
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: max must be > 0", ErrInvalidInput)
	}
	games, err := s.games.ListPublicGames(ctx, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("list public games: %w", err)
	}
	return games, nil
}
