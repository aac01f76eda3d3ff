package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
	"github.com/galclan/openfront-clanstats/internal/domain/playerstats"
)

// StatsStore keeps the ledger, counters and cursor behind one lock so
// ApplyMatch and ResetAll are atomic like their postgres counterparts.
type StatsStore struct {
	mu        sync.RWMutex
	processed map[string]time.Time
	counters  map[string]playerstats.Counters
	cursor    *backfill.Cursor
}

func NewStatsStore() *StatsStore {
	return &StatsStore{
		processed: make(map[string]time.Time),
		counters:  make(map[string]playerstats.Counters),
	}
}

func (s *StatsStore) HasProcessed(_ context.Context, matchID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.processed[matchID]
	return ok, nil
}

func (s *StatsStore) ApplyMatch(_ context.Context, matchID string, increments []playerstats.Increment, at time.Time) (bool, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return false, fmt.Errorf("apply match: match id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.processed[matchID]; ok {
		return false, nil
	}
	s.processed[matchID] = at.UTC()

	for _, inc := range increments {
		if inc.IsZero() || strings.TrimSpace(inc.Key) == "" {
			continue
		}
		row := s.counters[inc.Key]
		row.Key = inc.Key
		row.Add(playerstats.Counters{
			DisplayName: inc.DisplayName,
			WinsFFA:     inc.WinsFFA,
			LossesFFA:   inc.LossesFFA,
			WinsTeam:    inc.WinsTeam,
			LossesTeam:  inc.LossesTeam,
			WinsDuel:    inc.WinsDuel,
			LossesDuel:  inc.LossesDuel,
			UpdatedAt:   at.UTC(),
		})
		if inc.DisplayName != "" {
			row.DisplayName = inc.DisplayName
		}
		s.counters[inc.Key] = row
	}
	return true, nil
}

func (s *StatsStore) ResetAll(_ context.Context, cursor backfill.Cursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed = make(map[string]time.Time)
	s.counters = make(map[string]playerstats.Counters)
	s.cursor = &cursor
	return nil
}

func (s *StatsStore) ListAll(_ context.Context) ([]playerstats.Counters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]playerstats.Counters, 0, len(s.counters))
	for _, row := range s.counters {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *StatsStore) Get(_ context.Context) (backfill.Cursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cursor == nil {
		return backfill.Cursor{}, backfill.ErrCursorNotFound
	}
	return *s.cursor, nil
}

func (s *StatsStore) Save(_ context.Context, cursor backfill.Cursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor = &cursor
	return nil
}
