package heuristic

import (
	"sort"

	"github.com/brensch/snekfang/game"
)

// RankReachableFood returns the food we can reach no later than any opponent,
// nearest first. Food is dropped only when some opponent head is strictly
// closer to it than ours; ties stay in.
func RankReachableFood(head game.Point, youID string, food []game.Point, snakes []game.Snake) []game.Point {
	type scored struct {
		p    game.Point
		dist int
	}

	kept := make([]scored, 0, len(food))
	for _, f := range food {
		mine := game.Manhattan(head, f)
		contested := false
		for _, s := range snakes {
			if s.Id == youID || len(s.Body) == 0 {
				continue
			}
			if game.Manhattan(s.Head(), f) < mine {
				contested = true
				break
			}
		}
		if !contested {
			kept = append(kept, scored{p: f, dist: mine})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].dist < kept[j].dist })

	out := make([]game.Point, len(kept))
	for i, k := range kept {
		out[i] = k.p
	}
	return out
}
