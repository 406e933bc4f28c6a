package heuristic

import (
	"fmt"
	"sort"

	"github.com/brensch/snekfang/game"
)

// Threat is an opponent with its head distance from ours.
type Threat struct {
	Snake    game.Snake
	Distance int
}

// RankOpponents orders every other snake by Manhattan distance from head to
// its head, nearest first. Equal distances keep board order.
func RankOpponents(head game.Point, youID string, snakes []game.Snake) []Threat {
	ranked := make([]Threat, 0, len(snakes))
	for _, s := range snakes {
		if s.Id == youID || len(s.Body) == 0 {
			continue
		}
		ranked = append(ranked, Threat{Snake: s, Distance: game.Manhattan(head, s.Head())})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Distance < ranked[j].Distance })
	return ranked
}

// PursuitRule decides whether to chase an opponent this turn and, if so,
// which cell to close in on.
type PursuitRule interface {
	Target(you game.Snake, ranked []Threat, snakes []game.Snake) (game.Point, bool)
}

// ProximityRule chases the nearest opponent when it is within MaxDistance and
// strictly shorter than us.
type ProximityRule struct {
	MaxDistance int
}

func (r ProximityRule) Target(you game.Snake, ranked []Threat, _ []game.Snake) (game.Point, bool) {
	if len(ranked) == 0 {
		return game.Point{}, false
	}
	nearest := ranked[0]
	if nearest.Distance <= r.MaxDistance && nearest.Snake.Length() < you.Length() {
		return nearest.Snake.Head(), true
	}
	return game.Point{}, false
}

// LargestSnakeRule chases the nearest opponent at any range, but only while we
// are strictly the longest snake on the board.
type LargestSnakeRule struct{}

func (LargestSnakeRule) Target(you game.Snake, ranked []Threat, snakes []game.Snake) (game.Point, bool) {
	if len(ranked) == 0 {
		return game.Point{}, false
	}
	for _, s := range snakes {
		if s.Id != you.Id && s.Length() >= you.Length() {
			return game.Point{}, false
		}
	}
	return ranked[0].Snake.Head(), true
}

// NoPursuit never chases.
type NoPursuit struct{}

func (NoPursuit) Target(game.Snake, []Threat, []game.Snake) (game.Point, bool) {
	return game.Point{}, false
}

const (
	PursuitProximity = "proximity"
	PursuitLargest   = "largest"
	PursuitNone      = "none"
)

// ParsePursuitRule builds a rule by name. maxDistance only applies to
// PursuitProximity.
func ParsePursuitRule(name string, maxDistance int) (PursuitRule, error) {
	switch name {
	case PursuitProximity:
		if maxDistance < 0 {
			return nil, fmt.Errorf("pursuit distance must be >= 0, got %d", maxDistance)
		}
		return ProximityRule{MaxDistance: maxDistance}, nil
	case PursuitLargest:
		return LargestSnakeRule{}, nil
	case PursuitNone:
		return NoPursuit{}, nil
	default:
		return nil, fmt.Errorf("unknown pursuit rule %q (want %s, %s or %s)", name, PursuitProximity, PursuitLargest, PursuitNone)
	}
}
