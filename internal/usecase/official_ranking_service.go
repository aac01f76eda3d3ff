package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/galclan/openfront-clanstats/internal/domain/match"
	"github.com/galclan/openfront-clanstats/internal/domain/ranking"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
)

// RankingCache holds the last official ranking fetch. It is served while
// non-empty and younger than ttl.
type RankingCache struct {
	mu        sync.RWMutex
	items     []ranking.OfficialEntry
	fetchedAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewRankingCache(ttl time.Duration, now func() time.Time) *RankingCache {
	if now == nil {
		now = time.Now
	}
	return &RankingCache{ttl: ttl, now: now}
}

func (c *RankingCache) Fresh() (ranking.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.items) == 0 || c.fetchedAt.IsZero() {
		return ranking.Snapshot{}, false
	}
	if c.now().Sub(c.fetchedAt) >= c.ttl {
		return ranking.Snapshot{}, false
	}
	return ranking.Snapshot{Entries: c.items, FetchedAt: c.fetchedAt}, true
}

func (c *RankingCache) Store(items []ranking.OfficialEntry) ranking.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append([]ranking.OfficialEntry(nil), items...)
	c.fetchedAt = c.now().UTC()
	return ranking.Snapshot{Entries: c.items, FetchedAt: c.fetchedAt}
}

type OfficialRankingService struct {
	provider   ranking.Provider
	cache      *RankingCache
	classifier match.Classifier
	limit      int
	logger     *logging.Logger
	flight     singleflight.Group
}

func NewOfficialRankingService(provider ranking.Provider, cache *RankingCache, clanTag string, limit int, logger *logging.Logger) *OfficialRankingService {
	if logger == nil {
		logger = logging.Default()
	}
	if limit <= 0 {
		limit = 100
	}
	return &OfficialRankingService{
		provider:   provider,
		cache:      cache,
		classifier: match.NewClassifier(clanTag),
		limit:      limit,
		logger:     logger,
	}
}

// Get returns at most limit rows, fetching on a cache miss or expiry.
func (s *OfficialRankingService) Get(ctx context.Context, limit int) (ranking.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OfficialRankingService.Get")
	defer span.End()

	snap, err := s.snapshot(ctx)
	if err != nil {
		return ranking.Snapshot{}, err
	}
	if limit > 0 && len(snap.Entries) > limit {
		snap.Entries = snap.Entries[:limit]
	}
	return snap, nil
}

// ClanView keeps only entries whose username carries the clan tag.
func (s *OfficialRankingService) ClanView(ctx context.Context) (ranking.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OfficialRankingService.ClanView")
	defer span.End()

	snap, err := s.snapshot(ctx)
	if err != nil {
		return ranking.Snapshot{}, err
	}

	out := ranking.Snapshot{FetchedAt: snap.FetchedAt}
	for _, entry := range snap.Entries {
		if s.classifier.IsMemberName(entry.Username) {
			out.Entries = append(out.Entries, entry)
		}
	}
	return out, nil
}

func (s *OfficialRankingService) snapshot(ctx context.Context) (ranking.Snapshot, error) {
	if snap, ok := s.cache.Fresh(); ok {
		return snap, nil
	}

	v, err, _ := s.flight.Do("official", func() (any, error) {
		if snap, ok := s.cache.Fresh(); ok {
			return snap, nil
		}
		items, err := s.provider.FetchOfficialRanking(ctx, s.limit)
		if err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "official ranking refreshed", "entries", len(items))
		return s.cache.Store(items), nil
	})
	if err != nil {
		return ranking.Snapshot{}, fmt.Errorf("fetch official ranking: %w", err)
	}

	snap, _ := v.(ranking.Snapshot)
	return snap, nil
}
