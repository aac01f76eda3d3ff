package match

import "strings"

type Category string

const (
	CategoryNone Category = ""
	CategoryFFA  Category = "ffa"
	CategoryTeam Category = "team"
	CategoryDuel Category = "duel"
)

// SkipReason explains why a match contributed nothing. Skipped matches are
// still marked processed: the data itself is unclassifiable.
type SkipReason string

const (
	SkipNone                  SkipReason = ""
	SkipModeMissing           SkipReason = "mode_missing"
	SkipModeUnrecognized      SkipReason = "mode_unrecognized"
	SkipNoParticipants        SkipReason = "no_participants"
	SkipWrongParticipantCount SkipReason = "wrong_participant_count"
	SkipNoWinner              SkipReason = "no_winner"
	SkipNoMembers             SkipReason = "no_members"
)

// Result is one tracked participant's outcome in a classified match.
type Result struct {
	Participant Participant
	Category    Category
	Won         bool
}

type Classification struct {
	Category Category
	Results  []Result
	Skip     SkipReason
}

func (c Classification) Skipped() bool {
	return c.Skip != SkipNone
}

// Classifier maps a game detail onto per-member outcomes for one clan tag.
type Classifier struct {
	tag string
}

func NewClassifier(clanTag string) Classifier {
	return Classifier{tag: strings.ToUpper(strings.TrimSpace(clanTag))}
}

func (c Classifier) Tag() string {
	return c.tag
}

// ModeCategory classifies a raw game mode string. It reports CategoryNone for
// anything that is neither free-for-all nor team.
func ModeCategory(mode string) Category {
	m := strings.ToLower(strings.TrimSpace(mode))
	switch {
	case m == "":
		return CategoryNone
	case m == "ffa" || strings.Contains(m, "free for all"):
		return CategoryFFA
	case strings.Contains(m, "team"):
		return CategoryTeam
	default:
		return CategoryNone
	}
}

func isDuelCandidate(game Game) bool {
	m := strings.ToLower(game.Mode)
	if strings.Contains(m, "1v1") || strings.Contains(m, "duel") || strings.Contains(m, "ranked") {
		return true
	}
	return game.PlayerTeams == 1
}

// IsMemberName reports whether a username carries the clan tag, either as
// "[TAG]" anywhere or as a leading "TAG " word.
func (c Classifier) IsMemberName(username string) bool {
	if c.tag == "" || username == "" {
		return false
	}
	upper := strings.ToUpper(username)
	return strings.Contains(upper, "["+c.tag+"]") || strings.HasPrefix(upper, c.tag+" ")
}

func (c Classifier) IsMember(p Participant) bool {
	if c.tag != "" && strings.EqualFold(strings.TrimSpace(p.ClanTag), c.tag) {
		return true
	}
	return c.IsMemberName(p.Username)
}

// Classify is pure: the same game and flag always yield the same result.
// groupWon drives the FFA and team categories; duel outcomes come from the
// game's winner client ids.
func (c Classifier) Classify(game Game, groupWon bool) Classification {
	if len(game.Participants) == 0 {
		return Classification{Skip: SkipNoParticipants}
	}
	if strings.TrimSpace(game.Mode) == "" {
		return Classification{Skip: SkipModeMissing}
	}

	category := ModeCategory(game.Mode)
	if category == CategoryNone {
		if !isDuelCandidate(game) {
			return Classification{Skip: SkipModeUnrecognized}
		}
		return c.classifyDuel(game)
	}

	out := Classification{Category: category}
	for _, p := range game.Participants {
		if strings.TrimSpace(p.Username) == "" || !c.IsMember(p) {
			continue
		}
		out.Results = append(out.Results, Result{Participant: p, Category: category, Won: groupWon})
	}
	if len(out.Results) == 0 {
		out.Skip = SkipNoMembers
	}
	return out
}

func (c Classifier) classifyDuel(game Game) Classification {
	out := Classification{Category: CategoryDuel}
	if len(game.Participants) != 2 {
		out.Skip = SkipWrongParticipantCount
		return out
	}
	if len(game.Winner.ClientIDs) == 0 {
		out.Skip = SkipNoWinner
		return out
	}

	for _, p := range game.Participants {
		if strings.TrimSpace(p.Username) == "" || !c.IsMember(p) {
			continue
		}
		out.Results = append(out.Results, Result{
			Participant: p,
			Category:    CategoryDuel,
			Won:         game.Winner.Has(p.ClientID),
		})
	}
	if len(out.Results) == 0 {
		out.Skip = SkipNoMembers
	}
	return out
}
