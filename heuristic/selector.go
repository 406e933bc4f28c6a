// Package heuristic turns a single-turn board snapshot into one move.
//
// A Selector filters safe moves, ranks opponents and food, then asks an
// ordered list of strategies for a move. The first strategy that does not
// abstain wins. When no move is safe the configured fallback is returned
// instead of an error.
//
// A Selector owns a *rand.Rand and is not safe for concurrent use. Build one
// per request; construction is cheap.
package heuristic

import (
	"math/rand"
	"time"

	"github.com/brensch/snekfang/game"
	"github.com/brensch/snekfang/rules"
)

const BranchFallback = "fallback"

// Decision is the selected move plus what produced it.
type Decision struct {
	Move   game.Move
	Branch string
	Safe   []rules.Candidate
	Target *game.Point
}

type Selector struct {
	Strategies []Strategy
	Fallback   game.Move
	Rand       *rand.Rand
}

// NewSelector builds a selector from cfg. A nil rng is replaced by a
// time-seeded source.
func NewSelector(cfg Config, rng *rand.Rand) (*Selector, error) {
	strategies, err := cfg.Strategies()
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{Strategies: strategies, Fallback: cfg.Fallback, Rand: rng}, nil
}

// Decide picks a move for state.YouId. It does not modify state.
func (s *Selector) Decide(state *game.GameState) Decision {
	you, safe, ok := rules.Ego(state)
	if !ok || len(safe) == 0 {
		return Decision{Move: s.Fallback, Branch: BranchFallback}
	}

	head := you.Head()
	opponents := state.Opponents()
	turn := &Turn{
		State:   state,
		You:     you,
		Head:    head,
		Safe:    safe,
		Threats: RankOpponents(head, you.Id, opponents),
		Food:    RankReachableFood(head, you.Id, state.Food, opponents),
		Rand:    s.Rand,
	}

	for _, strategy := range s.Strategies {
		if p, ok := strategy.Propose(turn); ok {
			return Decision{Move: p.Move, Branch: strategy.Name(), Safe: safe, Target: p.Target}
		}
	}

	// Only reachable when the strategy list has no ExploreStrategy.
	return Decision{Move: safe[0].Move, Branch: BranchFallback, Safe: safe}
}
