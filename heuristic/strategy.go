package heuristic

import (
	"math/rand"

	"github.com/brensch/snekfang/game"
	"github.com/brensch/snekfang/rules"
)

// Turn carries everything a strategy may look at for one decision. It is
// built fresh by Selector.Decide and never outlives the call.
type Turn struct {
	State   *game.GameState
	You     game.Snake
	Head    game.Point
	Safe    []rules.Candidate
	Threats []Threat
	Food    []game.Point
	Rand    *rand.Rand
}

// Proposal is a strategy's chosen move. Target is the cell it steers toward,
// if any.
type Proposal struct {
	Move   game.Move
	Target *game.Point
}

// Strategy proposes a move or abstains. Strategies only see turns with at
// least one safe candidate.
type Strategy interface {
	Name() string
	Propose(t *Turn) (Proposal, bool)
}

// PursuitStrategy closes in on an opponent head picked by Rule.
type PursuitStrategy struct {
	Rule PursuitRule
}

func (PursuitStrategy) Name() string { return "pursuit" }

func (s PursuitStrategy) Propose(t *Turn) (Proposal, bool) {
	if s.Rule == nil {
		return Proposal{}, false
	}
	target, ok := s.Rule.Target(t.You, t.Threats, t.State.Snakes)
	if !ok {
		return Proposal{}, false
	}
	return Proposal{Move: closestMove(t.Safe, target), Target: &target}, true
}

// ForageStrategy heads for the nearest uncontested food.
type ForageStrategy struct{}

func (ForageStrategy) Name() string { return "forage" }

func (ForageStrategy) Propose(t *Turn) (Proposal, bool) {
	if len(t.Food) == 0 {
		return Proposal{}, false
	}
	target := t.Food[0]
	return Proposal{Move: closestMove(t.Safe, target), Target: &target}, true
}

// ExploreStrategy picks a uniformly random safe move.
type ExploreStrategy struct{}

func (ExploreStrategy) Name() string { return "explore" }

func (ExploreStrategy) Propose(t *Turn) (Proposal, bool) {
	if len(t.Safe) == 0 {
		return Proposal{}, false
	}
	if t.Rand == nil {
		return Proposal{Move: t.Safe[0].Move}, true
	}
	return Proposal{Move: t.Safe[t.Rand.Intn(len(t.Safe))].Move}, true
}

// closestMove returns the safe move whose landing cell is nearest target.
// safe is in game.AllMoves order, so the first minimum wins ties.
func closestMove(safe []rules.Candidate, target game.Point) game.Move {
	best := safe[0].Move
	bestDist := game.Manhattan(safe[0].Pos, target)
	for _, c := range safe[1:] {
		if d := game.Manhattan(c.Pos, target); d < bestDist {
			best, bestDist = c.Move, d
		}
	}
	return best
}
