package match

import (
	"reflect"
	"testing"
)

func TestParticipantClanTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		p    Participant
		want string
	}{
		{p: Participant{Username: "Rex", ClanTag: " abc "}, want: "ABC"},
		{p: Participant{Username: "[xyz] Nova"}, want: "XYZ"},
		{p: Participant{Username: "Nova [Q1] the second"}, want: "Q1"},
		{p: Participant{Username: "GAL Nova"}, want: ""},
		{p: Participant{Username: "[no space]"}, want: ""},
	}

	for _, tc := range tests {
		if got := ParticipantClanTag(tc.p); got != tc.want {
			t.Fatalf("ParticipantClanTag(%+v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}

func TestClassifier_Lineup_SplitsWinnersAndOpponents(t *testing.T) {
	t.Parallel()

	game := Game{
		ID:   "g1",
		Mode: "Team",
		Participants: []Participant{
			{Username: "[GAL] Rex", ClientID: "c1"},
			{Username: "GAL Nova", ClientID: "c2"},
			{Username: "Ally", ClientID: "c3", ClanTag: "frd"},
			{Username: "[ABC] Foe", ClientID: "c4"},
			{Username: "[xyz] Other", ClientID: "c5"},
			{Username: "Lone", ClientID: "c6"},
			{Username: "[ABC] Twin", ClientID: "c7"},
		},
		Winner: Winner{Kind: "team", Name: "Red", ClientIDs: []string{"c1", "c2", "c3"}},
	}

	got := NewClassifier("gal").Lineup(game)

	want := Lineup{
		GameID:        "g1",
		Mode:          "Team",
		Members:       []string{"GAL Nova", "[GAL] Rex"},
		Winners:       []string{"[GAL] Rex", "GAL Nova", "Ally"},
		OpponentClans: []string{"ABC", "XYZ"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Lineup() = %+v, want %+v", got, want)
	}
}

func TestClassifier_Lineup_WithoutWinnerIDs(t *testing.T) {
	t.Parallel()

	game := Game{
		ID:   "g2",
		Mode: "Free For All",
		Participants: []Participant{
			{Username: "[GAL] Rex", ClientID: "c1"},
			{Username: "[ABC] Foe", ClientID: "c2"},
			{Username: "[GAL] Rex", ClientID: "c3"},
		},
	}

	got := NewClassifier("GAL").Lineup(game)

	if !reflect.DeepEqual(got.Members, []string{"[GAL] Rex"}) {
		t.Fatalf("unexpected members: %#v", got.Members)
	}
	if !reflect.DeepEqual(got.Winners, []string{"[GAL] Rex", "[ABC] Foe"}) {
		t.Fatalf("every named player counts as a winner when ids are unknown: %#v", got.Winners)
	}
	if !reflect.DeepEqual(got.OpponentClans, []string{"ABC"}) {
		t.Fatalf("unexpected opponents: %#v", got.OpponentClans)
	}
}

func TestClassifier_Lineup_WinnerIDsMatchNobody(t *testing.T) {
	t.Parallel()

	game := Game{
		Participants: []Participant{
			{Username: "[GAL] Rex", ClientID: "c1"},
			{Username: "Stranger", ClientID: "c2"},
		},
		Winner: Winner{Kind: "player", ClientIDs: []string{"gone"}},
	}

	got := NewClassifier("GAL").Lineup(game)
	if !reflect.DeepEqual(got.Winners, []string{"[GAL] Rex"}) {
		t.Fatalf("expected member fallback, got %#v", got.Winners)
	}
}
