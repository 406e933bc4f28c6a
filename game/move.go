package game

import "fmt"

// Move is one of the four cardinal directions.
type Move int

const (
	MoveUp Move = iota
	MoveDown
	MoveLeft
	MoveRight
)

// AllMoves is the fixed order used for enumeration and tie-breaks.
var AllMoves = [4]Move{MoveUp, MoveDown, MoveLeft, MoveRight}

var moveNames = [4]string{"up", "down", "left", "right"}

func (m Move) String() string {
	if m < 0 || int(m) >= len(moveNames) {
		return fmt.Sprintf("Move(%d)", int(m))
	}
	return moveNames[m]
}

// ParseMove converts a wire name ("up", "down", "left", "right") to a Move.
func ParseMove(s string) (Move, error) {
	for i, name := range moveNames {
		if name == s {
			return Move(i), nil
		}
	}
	return MoveUp, fmt.Errorf("unknown move %q", s)
}

// Apply returns the position reached by taking m from p.
func (m Move) Apply(p Point) Point {
	switch m {
	case MoveUp:
		p.Y--
	case MoveDown:
		p.Y++
	case MoveLeft:
		p.X--
	case MoveRight:
		p.X++
	}
	return p
}

// MoveBetween returns the move that takes from to an adjacent cell to.
func MoveBetween(from, to Point) (Move, bool) {
	for _, m := range AllMoves {
		if m.Apply(from) == to {
			return m, true
		}
	}
	return MoveUp, false
}
