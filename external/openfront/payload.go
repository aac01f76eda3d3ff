package openfront

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/galclan/openfront-clanstats/internal/domain/clan"
	"github.com/galclan/openfront-clanstats/internal/domain/match"
)

var (
	sessionGameIDKeys = []string{"gameId", "gameID", "game_id", "id"}
	sessionWonKeys    = []string{"hasWon", "won", "win", "isWin"}
	modeKeys          = []string{"gameMode", "mode"}
	startKeys         = []string{"start", "startTime", "startedAt"}
	endKeys           = []string{"end", "endTime", "endedAt"}
	listKeys          = []string{"items", "data", "sessions", "games", "results"}
)

// parseSessions accepts a bare array or an object wrapping one.
func parseSessions(payload any) []match.Session {
	rows := extractList(payload, listKeys...)
	out := make([]match.Session, 0, len(rows))
	for _, raw := range rows {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, match.Session{
			GameID:    getStringAny(item, sessionGameIDKeys...),
			GroupWon:  getBoolAny(item, sessionWonKeys...),
			Mode:      getStringAny(item, modeKeys...),
			StartedAt: ParseTime(firstValue(item, startKeys...)),
			EndedAt:   ParseTime(firstValue(item, endKeys...)),
		})
	}
	return out
}

// parseGame reads a game detail; the record lives under "info" but a bare
// record is accepted too.
func parseGame(payload any, fallbackID string) match.Game {
	root, _ := payload.(map[string]any)
	info := root
	if nested, ok := root["info"].(map[string]any); ok {
		info = nested
	}

	cfg, _ := info["config"].(map[string]any)
	game := match.Game{
		ID:          firstNonEmpty(getStringAny(info, "gameID", "gameId", "id"), fallbackID),
		Mode:        firstNonEmpty(getStringAny(cfg, modeKeys...), getStringAny(info, modeKeys...)),
		PlayerTeams: int(getInt64(cfg, "playerTeams")),
		Winner:      parseWinner(info["winner"]),
		StartedAt:   ParseTime(firstValue(info, startKeys...)),
		EndedAt:     ParseTime(firstValue(info, endKeys...)),
	}

	players, _ := info["players"].([]any)
	for _, raw := range players {
		p, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		game.Participants = append(game.Participants, match.Participant{
			Username: getStringAny(p, "username", "name"),
			ClanTag:  getString(p, "clanTag"),
			ClientID: getStringAny(p, "clientID", "clientId", "id"),
		})
	}
	return game
}

// parseWinner normalizes ["kind", "name", [ids...]] and the flat
// ["kind", "name", id1, id2, ...] shape. Anything else yields no ids.
func parseWinner(raw any) match.Winner {
	items, ok := raw.([]any)
	if !ok || len(items) == 0 {
		return match.Winner{}
	}

	w := match.Winner{}
	w.Kind, _ = items[0].(string)
	if len(items) > 1 {
		w.Name, _ = items[1].(string)
	}
	if len(items) < 3 {
		return w
	}

	if nested, ok := items[2].([]any); ok {
		for _, id := range nested {
			if s, ok := id.(string); ok && s != "" {
				w.ClientIDs = append(w.ClientIDs, s)
			}
		}
		return w
	}

	tail := make([]string, 0, len(items)-2)
	for _, id := range items[2:] {
		s, ok := id.(string)
		if !ok {
			return match.Winner{Kind: w.Kind, Name: w.Name}
		}
		tail = append(tail, s)
	}
	w.ClientIDs = tail
	return w
}

func parsePublicGames(payload any) []match.PublicGame {
	rows := extractList(payload, listKeys...)
	out := make([]match.PublicGame, 0, len(rows))
	for _, raw := range rows {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		g := match.PublicGame{
			ID:        getStringAny(item, "game", "gameID", "gameId", "id"),
			Mode:      getStringAny(item, modeKeys...),
			MapName:   getStringAny(item, "map", "mapName", "gameMap"),
			Players:   int(getInt64Any(item, "numPlayers", "playerCount", "players")),
			StartedAt: ParseTime(firstValue(item, startKeys...)),
			EndedAt:   ParseTime(firstValue(item, endKeys...)),
		}
		if players, ok := item["players"].([]any); ok && g.Players == 0 {
			g.Players = len(players)
		}
		out = append(out, g)
	}
	return out
}

// parseClanLeaderboard reads {start, end, clans: [...]}. Rows without a tag
// are dropped.
func parseClanLeaderboard(payload any) clan.Leaderboard {
	root, _ := payload.(map[string]any)
	out := clan.Leaderboard{
		Start: ParseTime(root["start"]),
		End:   ParseTime(root["end"]),
	}

	for _, raw := range extractList(payload, "clans") {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		tag := getStringAny(item, "clanTag", "tag")
		if tag == "" {
			continue
		}
		s := clan.Standing{
			Tag:            tag,
			Games:          getInt64(item, "games"),
			Wins:           getInt64(item, "wins"),
			Losses:         getInt64(item, "losses"),
			PlayerSessions: getInt64(item, "playerSessions"),
		}
		s.WeightedWins, _ = asFloat64(item["weightedWins"])
		s.WeightedLosses, _ = asFloat64(item["weightedLosses"])
		s.WeightedWLRatio, _ = asFloat64(item["weightedWLRatio"])
		out.Clans = append(out.Clans, s)
	}
	return out
}

// ParseTime reads the API's timestamp shapes: epoch milliseconds, epoch
// seconds (as numbers or digit strings) and ISO-8601. Unknown values give
// the zero time.
func ParseTime(value any) time.Time {
	switch v := value.(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return v.UTC()
	case float64:
		return epochTime(int64(math.Trunc(v)))
	case int64:
		return epochTime(v)
	case int:
		return epochTime(int64(v))
	case string:
		raw := strings.TrimSpace(v)
		if raw == "" {
			return time.Time{}
		}
		if isDigits(raw) {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err == nil {
				if t := epochTime(n); !t.IsZero() {
					return t
				}
			}
			return time.Time{}
		}
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func epochTime(ts int64) time.Time {
	switch {
	case ts > 1_000_000_000_000:
		return time.UnixMilli(ts).UTC()
	case ts > 1_000_000_000:
		return time.Unix(ts, 0).UTC()
	default:
		return time.Time{}
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func extractList(payload any, keys ...string) []any {
	switch v := payload.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range keys {
			if list, ok := v[key].([]any); ok {
				return list
			}
		}
	}
	return nil
}

func firstValue(src map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := src[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	switch v := src[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func getStringAny(src map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := getString(src, key); v != "" {
			return v
		}
	}
	return ""
}

func getBoolAny(src map[string]any, keys ...string) bool {
	for _, key := range keys {
		switch v := src[key].(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b
			}
		case float64:
			return v != 0
		}
	}
	return false
}

func getInt64(src map[string]any, key string) int64 {
	if src == nil {
		return 0
	}
	switch v := src[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func getInt64Any(src map[string]any, keys ...string) int64 {
	for _, key := range keys {
		if v := getInt64(src, key); v != 0 {
			return v
		}
	}
	return 0
}

func asFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}
