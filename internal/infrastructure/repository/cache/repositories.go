package cache

import (
	"context"
	"time"

	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
	"github.com/galclan/openfront-clanstats/internal/domain/playerstats"
	basecache "github.com/galclan/openfront-clanstats/internal/platform/cache"
	"github.com/galclan/openfront-clanstats/internal/usecase"
)

const countersPrefix = "counters:"

type PlayerCounterRepository struct {
	next  playerstats.Repository
	cache *basecache.Store
}

func NewPlayerCounterRepository(next playerstats.Repository, cache *basecache.Store) *PlayerCounterRepository {
	return &PlayerCounterRepository{next: next, cache: cache}
}

func (r *PlayerCounterRepository) ListAll(ctx context.Context) ([]playerstats.Counters, error) {
	v, err := r.cache.GetOrLoad(ctx, countersPrefix+"all", func(ctx context.Context) (any, error) {
		items, err := r.next.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return append([]playerstats.Counters(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]playerstats.Counters)
	return append([]playerstats.Counters(nil), items...), nil
}

// StatsStore drops cached counter reads whenever counters change.
type StatsStore struct {
	next  usecase.StatsStore
	cache *basecache.Store
}

func NewStatsStore(next usecase.StatsStore, cache *basecache.Store) *StatsStore {
	return &StatsStore{next: next, cache: cache}
}

func (s *StatsStore) HasProcessed(ctx context.Context, matchID string) (bool, error) {
	return s.next.HasProcessed(ctx, matchID)
}

func (s *StatsStore) ApplyMatch(ctx context.Context, matchID string, increments []playerstats.Increment, at time.Time) (bool, error) {
	applied, err := s.next.ApplyMatch(ctx, matchID, increments, at)
	if err != nil {
		return false, err
	}
	if applied && len(increments) > 0 {
		s.cache.DeletePrefix(ctx, countersPrefix)
	}
	return applied, nil
}

func (s *StatsStore) ResetAll(ctx context.Context, cursor backfill.Cursor) error {
	if err := s.next.ResetAll(ctx, cursor); err != nil {
		return err
	}
	s.cache.DeletePrefix(ctx, countersPrefix)
	return nil
}
