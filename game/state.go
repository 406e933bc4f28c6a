// Package game defines the core game state types for Battlesnake.
//
// A GameState is rebuilt from the inbound snapshot every turn. Nothing in this
// package keeps state between turns, and the decision engine only reads it.
package game

// Point is a board coordinate.
// (0,0) is the top-left cell; y grows downward.
type Point struct {
	X int32
	Y int32
}

type Snake struct {
	Id     string
	Health int32
	Body   []Point
}

// Head returns the first body segment. Callers must not pass an empty body.
func (s Snake) Head() Point {
	return s.Body[0]
}

func (s Snake) Length() int {
	return len(s.Body)
}

// Occupies reports whether any body segment sits on p.
func (s Snake) Occupies(p Point) bool {
	for _, bp := range s.Body {
		if bp == p {
			return true
		}
	}
	return false
}

// GameState is the complete state needed for one decision.
// YouId selects the ego snake.
type GameState struct {
	Width  int32
	Height int32
	Snakes []Snake
	Food   []Point
	YouId  string
	Turn   int32
}

// You returns the ego snake, or nil when it is not on the board.
func (s *GameState) You() *Snake {
	for i := range s.Snakes {
		if s.Snakes[i].Id == s.YouId {
			return &s.Snakes[i]
		}
	}
	return nil
}

// Opponents returns every snake other than YouId with a non-empty body.
func (s *GameState) Opponents() []Snake {
	out := make([]Snake, 0, len(s.Snakes))
	for _, sn := range s.Snakes {
		if sn.Id == s.YouId || len(sn.Body) == 0 {
			continue
		}
		out = append(out, sn)
	}
	return out
}

func (s *GameState) InBounds(p Point) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

// Clone performs a deep copy of the game state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}

	out := &GameState{
		Width:  s.Width,
		Height: s.Height,
		YouId:  s.YouId,
		Turn:   s.Turn,
	}

	if len(s.Food) > 0 {
		out.Food = make([]Point, len(s.Food))
		copy(out.Food, s.Food)
	}

	if len(s.Snakes) > 0 {
		out.Snakes = make([]Snake, len(s.Snakes))
		for i := range s.Snakes {
			out.Snakes[i] = Snake{Id: s.Snakes[i].Id, Health: s.Snakes[i].Health}
			if len(s.Snakes[i].Body) > 0 {
				out.Snakes[i].Body = make([]Point, len(s.Snakes[i].Body))
				copy(out.Snakes[i].Body, s.Snakes[i].Body)
			}
		}
	}

	return out
}
