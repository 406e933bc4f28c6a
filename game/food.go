package game

import "math/rand"

// FoodSettings controls food spawning in simulated games.
type FoodSettings struct {
	MinimumFood     int // kept on the board at all times
	FoodSpawnChance int // percent chance of one extra piece on a turn already at the minimum
}

// DefaultFoodSettings are the standard ruleset values.
var DefaultFoodSettings = FoodSettings{MinimumFood: 1, FoodSpawnChance: 15}

// SpawnFood tops the board up to MinimumFood. A board already at the minimum
// gets one more piece with FoodSpawnChance percent probability. Food only
// lands on empty cells. rng is required; it is only drawn from when food may
// spawn.
func SpawnFood(state *GameState, rng *rand.Rand, settings FoodSettings) {
	need := settings.MinimumFood - len(state.Food)
	if need <= 0 {
		need = 0
		if settings.FoodSpawnChance > 0 && rng.Intn(100) < settings.FoodSpawnChance {
			need = 1
		}
	}
	if need == 0 {
		return
	}

	free := emptyCells(state)
	for ; need > 0 && len(free) > 0; need-- {
		i := rng.Intn(len(free))
		state.Food = append(state.Food, free[i])
		free[i] = free[len(free)-1]
		free = free[:len(free)-1]
	}
}

// PlaceStartingFood gives every snake one piece on a diagonal next to its
// head, on the side away from the centre, then puts one in the centre cell.
// Snakes with no free candidate get nothing.
func PlaceStartingFood(state *GameState, rng *rand.Rand) {
	center := Point{X: (state.Width - 1) / 2, Y: (state.Height - 1) / 2}
	taken := occupiedCells(state)

	for _, s := range state.Snakes {
		if len(s.Body) == 0 {
			continue
		}
		head := s.Head()
		var candidates []Point
		for _, d := range [4]Point{{X: -1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: -1}, {X: 1, Y: 1}} {
			p := Point{X: head.X + d.X, Y: head.Y + d.Y}
			if !state.InBounds(p) || taken[p] || p == center {
				continue
			}
			if awayFromCenter(head, p, center) {
				candidates = append(candidates, p)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		p := candidates[rng.Intn(len(candidates))]
		state.Food = append(state.Food, p)
		taken[p] = true
	}

	if !taken[center] {
		state.Food = append(state.Food, center)
	}
}

// awayFromCenter reports whether p lies beyond head, seen from center, on at
// least one axis.
func awayFromCenter(head, p, center Point) bool {
	switch {
	case p.X < head.X && head.X < center.X, center.X < head.X && head.X < p.X:
		return true
	case p.Y < head.Y && head.Y < center.Y, center.Y < head.Y && head.Y < p.Y:
		return true
	}
	return false
}

func occupiedCells(state *GameState) map[Point]bool {
	taken := make(map[Point]bool, len(state.Food)+len(state.Snakes)*3)
	for _, s := range state.Snakes {
		for _, p := range s.Body {
			taken[p] = true
		}
	}
	for _, f := range state.Food {
		taken[f] = true
	}
	return taken
}

// emptyCells lists cells holding neither food nor a snake, row by row.
func emptyCells(state *GameState) []Point {
	taken := occupiedCells(state)
	free := make([]Point, 0, max(0, int(state.Width)*int(state.Height)-len(taken)))
	for y := int32(0); y < state.Height; y++ {
		for x := int32(0); x < state.Width; x++ {
			if p := (Point{X: x, Y: y}); !taken[p] {
				free = append(free, p)
			}
		}
	}
	return free
}
