// Package rules decides which moves are survivable for the ego snake.
//
// The safety model looks one step ahead only. A cell occupied by any body
// segment (tails included) is unsafe even though the tail usually moves away
// this turn, and other snakes' simultaneous moves are not simulated.
package rules

import (
	"github.com/brensch/snekfang/game"
)

// Candidate is a move together with the cell it lands on.
type Candidate struct {
	Move game.Move
	Pos  game.Point
}

// SafeMoves returns the moves from head that stay on the board and do not
// land on any snake body segment. Results follow game.AllMoves order.
func SafeMoves(head game.Point, state *game.GameState) []Candidate {
	safe := make([]Candidate, 0, len(game.AllMoves))
	for _, m := range game.AllMoves {
		p := m.Apply(head)
		if IsSafe(state, p) {
			safe = append(safe, Candidate{Move: m, Pos: p})
		}
	}
	return safe
}

// IsSafe reports whether p is in bounds and free of every snake body.
func IsSafe(state *game.GameState, p game.Point) bool {
	if !state.InBounds(p) {
		return false
	}
	for _, s := range state.Snakes {
		if s.Occupies(p) {
			return false
		}
	}
	return true
}

// Ego returns the snake named by YouId and its safe moves. ok is false when
// that snake is missing or has no body.
func Ego(state *game.GameState) (you game.Snake, safe []Candidate, ok bool) {
	p := state.You()
	if p == nil || len(p.Body) == 0 {
		return game.Snake{}, nil, false
	}
	return *p, SafeMoves(p.Head(), state), true
}

// IsTerminal returns true if YouId is gone or has no safe move left.
func IsTerminal(state *game.GameState) bool {
	_, safe, ok := Ego(state)
	return !ok || len(safe) == 0
}
