package openfront

import (
	"testing"
	"time"
)

func TestParseWinner_Shapes(t *testing.T) {
	t.Parallel()

	nested := parseWinner([]any{"player", "Bob", []any{"c1"}})
	if nested.Kind != "player" || nested.Name != "Bob" || len(nested.ClientIDs) != 1 || nested.ClientIDs[0] != "c1" {
		t.Fatalf("unexpected nested winner: %+v", nested)
	}

	flat := parseWinner([]any{"team", "Purple", "c1", "c2"})
	if len(flat.ClientIDs) != 2 || !flat.Has("c2") {
		t.Fatalf("unexpected flat winner: %+v", flat)
	}

	mixed := parseWinner([]any{"team", "Purple", "c1", float64(3)})
	if len(mixed.ClientIDs) != 0 {
		t.Fatalf("mixed tail must yield no ids, got %+v", mixed.ClientIDs)
	}

	if w := parseWinner(nil); w.Kind != "" || len(w.ClientIDs) != 0 {
		t.Fatalf("nil winner must be empty, got %+v", w)
	}
	if w := parseWinner([]any{"player", "Bob"}); len(w.ClientIDs) != 0 {
		t.Fatalf("short winner must have no ids, got %+v", w)
	}
}

func TestParseGame_InfoEnvelopeAndFallbackID(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"info": map[string]any{
			"config": map[string]any{"gameMode": "Team", "playerTeams": float64(2)},
			"players": []any{
				map[string]any{"username": "[GAL] Ace", "clanTag": "GAL", "clientID": "c1"},
				"junk",
				map[string]any{"username": "Other", "clientID": "c2"},
			},
			"winner": []any{"team", "Red", "c1"},
			"start":  float64(1_700_000_000_000),
		},
	}

	game := parseGame(payload, "g-fallback")
	if game.ID != "g-fallback" {
		t.Fatalf("expected fallback id, got %q", game.ID)
	}
	if game.Mode != "Team" || game.PlayerTeams != 2 {
		t.Fatalf("unexpected mode fields: mode=%q teams=%d", game.Mode, game.PlayerTeams)
	}
	if len(game.Participants) != 2 || game.Participants[0].ClanTag != "GAL" {
		t.Fatalf("unexpected participants: %+v", game.Participants)
	}
	if !game.Winner.Has("c1") {
		t.Fatalf("expected c1 to be a winner")
	}
	if want := time.UnixMilli(1_700_000_000_000).UTC(); !game.StartedAt.Equal(want) {
		t.Fatalf("start mismatch: got=%s want=%s", game.StartedAt, want)
	}
}

func TestParseSessions_WrappedAndBare(t *testing.T) {
	t.Parallel()

	bare := parseSessions([]any{
		map[string]any{"gameId": "g1", "hasWon": true, "gameMode": "Free For All"},
	})
	if len(bare) != 1 || bare[0].GameID != "g1" || !bare[0].GroupWon || bare[0].Mode != "Free For All" {
		t.Fatalf("unexpected bare sessions: %+v", bare)
	}

	wrapped := parseSessions(map[string]any{
		"sessions": []any{map[string]any{"id": "g2", "won": "false"}},
	})
	if len(wrapped) != 1 || wrapped[0].GameID != "g2" || wrapped[0].GroupWon {
		t.Fatalf("unexpected wrapped sessions: %+v", wrapped)
	}

	if got := parseSessions(map[string]any{"other": 1}); len(got) != 0 {
		t.Fatalf("expected no sessions, got %d", len(got))
	}
}

func TestParseTime_Shapes(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		value any
	}{
		{name: "millis", value: float64(want.UnixMilli())},
		{name: "seconds", value: float64(want.Unix())},
		{name: "digit string", value: "1709294400"},
		{name: "iso", value: "2024-03-01T12:00:00Z"},
		{name: "iso offset", value: "2024-03-01T14:00:00+02:00"},
	}
	for _, tc := range cases {
		if got := ParseTime(tc.value); !got.Equal(want) {
			t.Fatalf("%s: got=%s want=%s", tc.name, got, want)
		}
	}

	for _, bad := range []any{nil, "", "yesterday", float64(42), true} {
		if got := ParseTime(bad); !got.IsZero() {
			t.Fatalf("expected zero time for %v, got %s", bad, got)
		}
	}
}

func TestParseRankingRow_Normalization(t *testing.T) {
	t.Parallel()

	entry, ok := parseRankingRow(map[string]any{
		"username": "Ace",
		"clanTag":  "gal",
		"elo":      float64(1520.5),
		"wins":     float64(6),
		"losses":   float64(4),
		"winRate":  float64(0.6),
	})
	if !ok {
		t.Fatalf("expected row to parse")
	}
	if entry.Username != "[gal] Ace" {
		t.Fatalf("unexpected username %q", entry.Username)
	}
	if entry.Games != 10 || entry.WinRate != 60 || entry.Elo != 1520.5 {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	tagged, _ := parseRankingRow(map[string]any{"name": "[GAL] Bee", "clanTag": "GAL", "ratio": float64(75)})
	if tagged.Username != "[GAL] Bee" || tagged.WinRate != 75 {
		t.Fatalf("unexpected tagged entry: %+v", tagged)
	}

	derived, _ := parseRankingRow(map[string]any{"player": "Cee", "wins": float64(1), "losses": float64(3)})
	if derived.WinRate != 25 {
		t.Fatalf("expected derived win rate 25, got %v", derived.WinRate)
	}

	if _, ok := parseRankingRow(map[string]any{"elo": float64(1000)}); ok {
		t.Fatalf("row without a name must be skipped")
	}
}
