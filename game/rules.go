package game

import "math/rand"

// NextStateSimultaneous advances the game by one turn with a move for every
// live snake. Snakes without an entry in moves are eliminated.
//
// Order follows the standard ruleset: move heads, feed or starve, remove eaten
// food, eliminate, then spawn new food with rng (see SpawnFood).
func NextStateSimultaneous(state *GameState, moves map[string]Move, rng *rand.Rand, settings FoodSettings) *GameState {
	next := state.Clone()
	next.Turn++

	eaten := make(map[Point]bool)
	dead := make(map[string]bool)
	removed := make(map[string]bool)

	for i := range next.Snakes {
		s := &next.Snakes[i]
		move, ok := moves[s.Id]
		if !ok || len(s.Body) == 0 {
			removed[s.Id] = true
			continue
		}

		newHead := move.Apply(s.Body[0])
		body := make([]Point, 0, len(s.Body)+1)
		body = append(body, newHead)
		body = append(body, s.Body[:len(s.Body)-1]...)

		ate := false
		for _, f := range next.Food {
			if f == newHead {
				ate = true
				eaten[f] = true
				break
			}
		}

		if ate {
			s.Health = 100
			body = append(body, body[len(body)-1])
		} else {
			s.Health--
		}
		s.Body = body
	}

	if len(eaten) > 0 {
		remaining := make([]Point, 0, len(next.Food))
		for _, f := range next.Food {
			if !eaten[f] {
				remaining = append(remaining, f)
			}
		}
		next.Food = remaining
	}

	for _, s := range next.Snakes {
		if removed[s.Id] {
			continue
		}
		head := s.Body[0]

		if s.Health <= 0 || !next.InBounds(head) {
			dead[s.Id] = true
			continue
		}

		for _, other := range next.Snakes {
			if removed[other.Id] {
				continue
			}
			// Heads are handled by the head-to-head pass below.
			for _, p := range other.Body[1:] {
				if p == head {
					dead[s.Id] = true
				}
			}
		}
	}

	for i := 0; i < len(next.Snakes); i++ {
		s1 := next.Snakes[i]
		if removed[s1.Id] || !next.InBounds(s1.Body[0]) {
			continue
		}
		for j := i + 1; j < len(next.Snakes); j++ {
			s2 := next.Snakes[j]
			if removed[s2.Id] || s1.Body[0] != s2.Body[0] {
				continue
			}
			switch {
			case len(s1.Body) > len(s2.Body):
				dead[s2.Id] = true
			case len(s2.Body) > len(s1.Body):
				dead[s1.Id] = true
			default:
				dead[s1.Id] = true
				dead[s2.Id] = true
			}
		}
	}

	alive := make([]Snake, 0, len(next.Snakes))
	for _, s := range next.Snakes {
		if !dead[s.Id] && !removed[s.Id] {
			alive = append(alive, s)
		}
	}
	next.Snakes = alive

	SpawnFood(next, rng, settings)
	return next
}

// IsGameOver reports whether the game has finished. Multi-snake games end
// with one survivor; a solo game ends when its snake dies.
func IsGameOver(state *GameState, startedWith int) bool {
	if startedWith <= 1 {
		return len(state.Snakes) == 0
	}
	return len(state.Snakes) <= 1
}

// Winner returns the id of the last snake standing, or "" for a draw or an
// unfinished game.
func Winner(state *GameState) string {
	if len(state.Snakes) == 1 {
		return state.Snakes[0].Id
	}
	return ""
}
