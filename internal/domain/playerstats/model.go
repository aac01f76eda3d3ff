package playerstats

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/galclan/openfront-clanstats/internal/domain/match"
)

// Counters is one durable row keyed by the storage key. All counters are
// monotonic between resets.
type Counters struct {
	Key         string
	DisplayName string
	WinsFFA     int64
	LossesFFA   int64
	WinsTeam    int64
	LossesTeam  int64
	WinsDuel    int64
	LossesDuel  int64
	UpdatedAt   time.Time
}

// Add sums other into c. The display name follows the most recent update.
func (c *Counters) Add(other Counters) {
	c.WinsFFA += other.WinsFFA
	c.LossesFFA += other.LossesFFA
	c.WinsTeam += other.WinsTeam
	c.LossesTeam += other.LossesTeam
	c.WinsDuel += other.WinsDuel
	c.LossesDuel += other.LossesDuel
	if other.UpdatedAt.After(c.UpdatedAt) || c.DisplayName == "" {
		if other.DisplayName != "" {
			c.DisplayName = other.DisplayName
		}
	}
	if other.UpdatedAt.After(c.UpdatedAt) {
		c.UpdatedAt = other.UpdatedAt
	}
}

// Record returns the win and loss totals that count toward board.
func (c Counters) Record(board Board) (wins, losses int64) {
	switch board {
	case BoardFFA:
		return c.WinsFFA, c.LossesFFA
	case BoardTeam:
		return c.WinsTeam, c.LossesTeam
	case BoardDuel:
		return c.WinsDuel, c.LossesDuel
	default:
		return c.WinsFFA + c.WinsTeam, c.LossesFFA + c.LossesTeam
	}
}

// Increment is a single-match delta for one storage key: exactly one field
// is 1 and the rest are 0.
type Increment struct {
	Key         string
	DisplayName string
	WinsFFA     int64
	LossesFFA   int64
	WinsTeam    int64
	LossesTeam  int64
	WinsDuel    int64
	LossesDuel  int64
}

func (i Increment) IsZero() bool {
	return i.WinsFFA == 0 && i.LossesFFA == 0 && i.WinsTeam == 0 && i.LossesTeam == 0 && i.WinsDuel == 0 && i.LossesDuel == 0
}

// NewIncrement turns a classified result into a counter delta.
func NewIncrement(key, displayName string, result match.Result) (Increment, error) {
	inc := Increment{Key: key, DisplayName: displayName}
	switch result.Category {
	case match.CategoryFFA:
		if result.Won {
			inc.WinsFFA = 1
		} else {
			inc.LossesFFA = 1
		}
	case match.CategoryTeam:
		if result.Won {
			inc.WinsTeam = 1
		} else {
			inc.LossesTeam = 1
		}
	case match.CategoryDuel:
		if result.Won {
			inc.WinsDuel = 1
		} else {
			inc.LossesDuel = 1
		}
	default:
		return Increment{}, fmt.Errorf("unsupported category %q", result.Category)
	}
	return inc, nil
}

type Board string

const (
	BoardOverall Board = "overall"
	BoardFFA     Board = "ffa"
	BoardTeam    Board = "team"
	BoardDuel    Board = "duel"
)

var ErrUnknownBoard = errors.New("unknown leaderboard board")

func ParseBoard(raw string) (Board, error) {
	switch Board(strings.ToLower(strings.TrimSpace(raw))) {
	case "", BoardOverall:
		return BoardOverall, nil
	case BoardFFA:
		return BoardFFA, nil
	case BoardTeam:
		return BoardTeam, nil
	case BoardDuel, "1v1":
		return BoardDuel, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBoard, raw)
	}
}
