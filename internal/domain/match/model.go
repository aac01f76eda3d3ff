package match

import "time"

// Session is one entry of the tracked group's session history. GroupWon is
// the group-level outcome reported by the API for team and FFA games.
type Session struct {
	GameID    string
	GroupWon  bool
	Mode      string
	StartedAt time.Time
	EndedAt   time.Time
}

// Participant is a player record inside a game detail.
type Participant struct {
	Username string
	ClanTag  string
	ClientID string
}

// Winner is the normalized form of the API's winner array, e.g.
// ["team", "Purple", "id1", "id2"] or ["player", "Name", ["id1"]].
type Winner struct {
	Kind      string
	Name      string
	ClientIDs []string
}

func (w Winner) Has(clientID string) bool {
	if clientID == "" {
		return false
	}
	for _, id := range w.ClientIDs {
		if id == clientID {
			return true
		}
	}
	return false
}

// Game is the detail record of a single match.
type Game struct {
	ID           string
	Mode         string
	PlayerTeams  int
	Participants []Participant
	Winner       Winner
	StartedAt    time.Time
	EndedAt      time.Time
}

// PublicGame is a row of the public game listing.
type PublicGame struct {
	ID        string
	Mode      string
	MapName   string
	Players   int
	StartedAt time.Time
	EndedAt   time.Time
}
