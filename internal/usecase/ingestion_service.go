package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/galclan/openfront-clanstats/internal/domain/match"
	"github.com/galclan/openfront-clanstats/internal/domain/playerstats"
	"github.com/galclan/openfront-clanstats/internal/domain/sweeprun"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
)

const (
	defaultMaxSessionsPerWindow = 500
	defaultDetailWorkers        = 4
	defaultLiveWindow           = 6 * time.Hour
)

type IngestionConfig struct {
	ClanTag              string
	MaxSessionsPerWindow int
	DetailWorkers        int
	LiveWindow           time.Duration
}

// RangeResult summarizes one sweep of [WindowStart, WindowEnd). Processed
// counts matches newly written to the ledger; Skipped is the subset of
// those that were unclassifiable and contributed no counters.
type RangeResult struct {
	RunID            string
	WindowStart      time.Time
	WindowEnd        time.Time
	Seen             int
	Processed        int
	Skipped          int
	AlreadyProcessed int
	MissingID        int
	FailedDetails    int
	SkipReasons      map[match.SkipReason]int
}

func (r RangeResult) skipReasonCounts() map[string]int {
	if len(r.SkipReasons) == 0 {
		return nil
	}
	out := make(map[string]int, len(r.SkipReasons))
	for reason, n := range r.SkipReasons {
		out[string(reason)] = n
	}
	return out
}

// IngestionService is the range fetcher: it discovers sessions in a window,
// fetches details for unseen matches and folds outcomes into the counters.
type IngestionService struct {
	provider   MatchProvider
	store      StatsStore
	classifier match.Classifier
	normalizer playerstats.Normalizer
	journal    *SweepJournal
	cfg        IngestionConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewIngestionService(
	provider MatchProvider,
	store StatsStore,
	normalizer playerstats.Normalizer,
	journal *SweepJournal,
	cfg IngestionConfig,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if journal == nil {
		journal = NewSweepJournal(nil, nil, 0, logger)
	}
	if cfg.MaxSessionsPerWindow <= 0 {
		cfg.MaxSessionsPerWindow = defaultMaxSessionsPerWindow
	}
	if cfg.DetailWorkers <= 0 {
		cfg.DetailWorkers = defaultDetailWorkers
	}
	if cfg.LiveWindow <= 0 {
		cfg.LiveWindow = defaultLiveWindow
	}
	return &IngestionService{
		provider:   provider,
		store:      store,
		classifier: match.NewClassifier(cfg.ClanTag),
		normalizer: normalizer,
		journal:    journal,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock swaps the time source and returns the service for chaining.
func (s *IngestionService) WithClock(now func() time.Time) *IngestionService {
	if now != nil {
		s.now = now
	}
	return s
}

// RefreshRange is the operator-triggered sweep of an arbitrary window.
func (s *IngestionService) RefreshRange(ctx context.Context, start, end time.Time) (RangeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.RefreshRange")
	defer span.End()

	if err := validateWindow(start, end); err != nil {
		return RangeResult{}, err
	}
	return s.Sweep(ctx, sweeprun.KindRefresh, start, end)
}

// LiveSweep re-scans the trailing live window ending now.
func (s *IngestionService) LiveSweep(ctx context.Context) (RangeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.LiveSweep")
	defer span.End()

	end := s.now().UTC()
	return s.Sweep(ctx, sweeprun.KindLive, end.Add(-s.cfg.LiveWindow), end)
}

// SeedHistory marks every session in the window as processed without
// touching counters.
func (s *IngestionService) SeedHistory(ctx context.Context, start, end time.Time) (RangeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.SeedHistory")
	defer span.End()

	if err := validateWindow(start, end); err != nil {
		return RangeResult{}, err
	}

	runID := s.journal.NewRunID()
	startedAt := s.now()
	result, err := s.markRange(ctx, start.UTC(), end.UTC())
	result.RunID = runID
	s.journal.Record(ctx, runID, sweeprun.KindSeed, result, startedAt, s.now(), err)
	return result, err
}

// Sweep runs the range fetcher over [start, end) and journals the run. A
// returned error means the window as a whole failed and should be retried.
func (s *IngestionService) Sweep(ctx context.Context, kind sweeprun.Kind, start, end time.Time) (RangeResult, error) {
	runID := s.journal.NewRunID()
	startedAt := s.now()
	result, err := s.fetchRange(ctx, start.UTC(), end.UTC())
	result.RunID = runID
	s.journal.Record(ctx, runID, kind, result, startedAt, s.now(), err)
	return result, err
}

func (s *IngestionService) fetchRange(ctx context.Context, start, end time.Time) (RangeResult, error) {
	result := RangeResult{WindowStart: start, WindowEnd: end}
	if !end.After(start) {
		return result, nil
	}

	sessions, err := s.provider.FetchClanSessions(ctx, s.classifier.Tag(), start, end)
	if err != nil {
		return result, fmt.Errorf("fetch sessions %s..%s: %w", start.Format(time.RFC3339), end.Format(time.RFC3339), err)
	}
	if len(sessions) > s.cfg.MaxSessionsPerWindow {
		sessions = sessions[:s.cfg.MaxSessionsPerWindow]
	}
	result.Seen = len(sessions)

	pending, err := s.pendingSessions(ctx, sessions, &result)
	if err != nil {
		return result, err
	}
	if len(pending) == 0 {
		return result, nil
	}

	details, err := s.prefetchDetails(ctx, pending)
	if err != nil {
		return result, err
	}

	for i, session := range pending {
		detail := details[i]
		if detail.err != nil {
			result.FailedDetails++
			s.logger.WarnContext(ctx, "fetch game detail failed, match left for retry",
				"game_id", session.GameID,
				"error", detail.err,
			)
			continue
		}

		if err := s.foldMatch(ctx, session, detail.game, &result); err != nil {
			return result, err
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// pendingSessions drops sessions without an id, duplicates inside the batch
// and matches the ledger already holds.
func (s *IngestionService) pendingSessions(ctx context.Context, sessions []match.Session, result *RangeResult) ([]match.Session, error) {
	pending := make([]match.Session, 0, len(sessions))
	seen := make(map[string]struct{}, len(sessions))
	for _, session := range sessions {
		session.GameID = strings.TrimSpace(session.GameID)
		if session.GameID == "" {
			result.MissingID++
			continue
		}
		if _, dup := seen[session.GameID]; dup {
			continue
		}
		seen[session.GameID] = struct{}{}

		processed, err := s.store.HasProcessed(ctx, session.GameID)
		if err != nil {
			return nil, fmt.Errorf("check processed game_id=%s: %w", session.GameID, err)
		}
		if processed {
			result.AlreadyProcessed++
			continue
		}
		pending = append(pending, session)
	}
	return pending, nil
}

type detailResult struct {
	game match.Game
	err  error
}

// prefetchDetails fetches details on a bounded pool. Results keep the order
// of sessions so the fold stays sequential.
func (s *IngestionService) prefetchDetails(ctx context.Context, sessions []match.Session) ([]detailResult, error) {
	results := make([]detailResult, len(sessions))

	pool, err := ants.NewPool(min(s.cfg.DetailWorkers, len(sessions)))
	if err != nil {
		return nil, fmt.Errorf("create detail worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, session := range sessions {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			game, err := s.provider.FetchGame(ctx, session.GameID)
			results[i] = detailResult{game: game, err: err}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit detail fetch to worker pool: %w", err)
		}
	}
	workers.Wait()
	return results, nil
}

func (s *IngestionService) foldMatch(ctx context.Context, session match.Session, game match.Game, result *RangeResult) error {
	if strings.TrimSpace(game.Mode) == "" {
		game.Mode = session.Mode
	}

	classification := s.classifier.Classify(game, session.GroupWon)
	increments, err := s.increments(classification)
	if err != nil {
		return fmt.Errorf("build increments game_id=%s: %w", session.GameID, err)
	}

	applied, err := s.store.ApplyMatch(ctx, session.GameID, increments, s.now().UTC())
	if err != nil {
		return fmt.Errorf("apply match game_id=%s: %w", session.GameID, err)
	}
	if !applied {
		result.AlreadyProcessed++
		return nil
	}

	result.Processed++
	if classification.Skipped() {
		result.Skipped++
		if result.SkipReasons == nil {
			result.SkipReasons = make(map[match.SkipReason]int)
		}
		result.SkipReasons[classification.Skip]++
		s.logger.DebugContext(ctx, "match skipped", "game_id", session.GameID, "reason", classification.Skip)
	}
	return nil
}

// increments maps classified results to one delta per storage key; a key
// reached by two participants of the same match is counted once.
func (s *IngestionService) increments(c match.Classification) ([]playerstats.Increment, error) {
	if c.Skipped() {
		return nil, nil
	}

	out := make([]playerstats.Increment, 0, len(c.Results))
	keys := make(map[string]struct{}, len(c.Results))
	for _, r := range c.Results {
		key := s.normalizer.Key(r.Participant.Username)
		if key == "" {
			continue
		}
		if _, dup := keys[key]; dup {
			continue
		}
		keys[key] = struct{}{}

		inc, err := playerstats.NewIncrement(key, s.normalizer.DisplayName(r.Participant.Username), r)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, nil
}

func (s *IngestionService) markRange(ctx context.Context, start, end time.Time) (RangeResult, error) {
	result := RangeResult{WindowStart: start, WindowEnd: end}

	sessions, err := s.provider.FetchClanSessions(ctx, s.classifier.Tag(), start, end)
	if err != nil {
		return result, fmt.Errorf("fetch sessions for seeding: %w", err)
	}
	result.Seen = len(sessions)

	at := s.now().UTC()
	for _, session := range sessions {
		gameID := strings.TrimSpace(session.GameID)
		if gameID == "" {
			result.MissingID++
			continue
		}
		applied, err := s.store.ApplyMatch(ctx, gameID, nil, at)
		if err != nil {
			return result, fmt.Errorf("mark game_id=%s: %w", gameID, err)
		}
		if applied {
			result.Processed++
			result.Skipped++
		} else {
			result.AlreadyProcessed++
		}
	}
	return result, nil
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}
	return nil
}

// IsTransient reports whether err should be retried on the next sweep.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientFetch) || errors.Is(err, context.DeadlineExceeded)
}
