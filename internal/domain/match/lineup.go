package match

import (
	"regexp"
	"slices"
	"strings"
)

var bracketTag = regexp.MustCompile(`\[([A-Za-z0-9]+)\]`)

// Lineup is one game seen from the tracked clan: its members, the winning
// players and the other clans on the losing side.
type Lineup struct {
	GameID        string
	Mode          string
	Members       []string
	Winners       []string
	OpponentClans []string
}

// ParticipantClanTag returns the upper-cased tag from the clanTag field, or
// from a "[TAG]" in the username when the field is empty.
func ParticipantClanTag(p Participant) string {
	if tag := strings.TrimSpace(p.ClanTag); tag != "" {
		return strings.ToUpper(tag)
	}
	if m := bracketTag.FindStringSubmatch(p.Username); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

// Lineup never fails: unknown winners yield the member list as winners and
// every tagged non-member as an opponent.
func (c Classifier) Lineup(game Game) Lineup {
	out := Lineup{
		GameID:        game.ID,
		Mode:          game.Mode,
		Members:       c.memberNames(game),
		OpponentClans: c.opponentClans(game),
	}

	hasWinners := len(game.Winner.ClientIDs) > 0
	seen := make(map[string]struct{})
	for _, p := range game.Participants {
		if hasWinners && !game.Winner.Has(p.ClientID) {
			continue
		}
		name := strings.TrimSpace(p.Username)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out.Winners = append(out.Winners, name)
	}
	if len(out.Winners) == 0 {
		out.Winners = slices.Clone(out.Members)
	}
	return out
}

func (c Classifier) memberNames(game Game) []string {
	var names []string
	for _, p := range game.Participants {
		name := strings.TrimSpace(p.Username)
		if name != "" && c.IsMember(p) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func (c Classifier) opponentClans(game Game) []string {
	hasWinners := len(game.Winner.ClientIDs) > 0
	var tags []string
	for _, p := range game.Participants {
		if hasWinners && game.Winner.Has(p.ClientID) {
			continue
		}
		tag := ParticipantClanTag(p)
		if tag == "" || tag == c.tag {
			continue
		}
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return slices.Compact(tags)
}
