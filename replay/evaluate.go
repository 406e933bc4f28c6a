package replay

import (
	"fmt"
	"sort"
	"strings"

	"github.com/brensch/snekfang/game"
	"github.com/brensch/snekfang/heuristic"
	"github.com/brensch/snekfang/recorder"
)

// Sample is one position with the move that was actually played from it.
type Sample struct {
	GameID string
	State  *game.GameState
	Actual game.Move
}

// SamplesFromGame pairs each frame where snakeID is alive with the move it
// made into the next frame. The final frame and turns leading into the
// snake's death are skipped, since the move cannot be read off the board.
func SamplesFromGame(g Game, snakeID string) []Sample {
	var out []Sample
	for i := 0; i+1 < len(g.Frames); i++ {
		cur, ok := g.Frames[i].Snake(snakeID)
		if !ok || !cur.Alive() {
			continue
		}
		next, ok := g.Frames[i+1].Snake(snakeID)
		if !ok || !next.Alive() {
			continue
		}
		from := game.Point{X: int32(cur.Body[0].X), Y: int32(cur.Body[0].Y)}
		to := game.Point{X: int32(next.Body[0].X), Y: int32(next.Body[0].Y)}
		move, ok := game.MoveBetween(from, to)
		if !ok {
			continue
		}
		out = append(out, Sample{
			GameID: g.ID,
			State:  g.Frames[i].State(g.Width, g.Height, snakeID),
			Actual: move,
		})
	}
	return out
}

// SamplesFromTurns turns recorder rows into samples whose actual move is the
// one recorded at the time. Rows with an unreadable move are skipped.
func SamplesFromTurns(rows []recorder.TurnRow) []Sample {
	out := make([]Sample, 0, len(rows))
	for _, row := range rows {
		move, err := game.ParseMove(row.Move)
		if err != nil {
			continue
		}
		out = append(out, Sample{GameID: row.GameID, State: row.State(), Actual: move})
	}
	return out
}

type BranchStats struct {
	Turns  int
	Agreed int
}

// Disagreement is a turn where the engine chose differently.
type Disagreement struct {
	GameID string
	Turn   int32
	Actual game.Move
	Chosen game.Move
	Branch string
}

// Report summarises an evaluation run.
type Report struct {
	Turns         int
	Agreed        int
	ByBranch      map[string]*BranchStats
	Disagreements []Disagreement
}

// Agreement is the fraction of turns where the engine matched the played move.
func (r Report) Agreement() float64 {
	if r.Turns == 0 {
		return 0
	}
	return float64(r.Agreed) / float64(r.Turns)
}

func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "turns=%d agreed=%d (%.1f%%)\n", r.Turns, r.Agreed, 100*r.Agreement())

	branches := make([]string, 0, len(r.ByBranch))
	for b := range r.ByBranch {
		branches = append(branches, b)
	}
	sort.Strings(branches)
	for _, b := range branches {
		s := r.ByBranch[b]
		fmt.Fprintf(&sb, "  %-9s turns=%d agreed=%d\n", b, s.Turns, s.Agreed)
	}
	return sb.String()
}

// Evaluate runs sel on every sample and compares with the played move.
func Evaluate(samples []Sample, sel *heuristic.Selector) Report {
	report := Report{ByBranch: make(map[string]*BranchStats)}
	for _, s := range samples {
		d := sel.Decide(s.State)

		stats := report.ByBranch[d.Branch]
		if stats == nil {
			stats = &BranchStats{}
			report.ByBranch[d.Branch] = stats
		}
		report.Turns++
		stats.Turns++

		if d.Move == s.Actual {
			report.Agreed++
			stats.Agreed++
			continue
		}
		report.Disagreements = append(report.Disagreements, Disagreement{
			GameID: s.GameID,
			Turn:   s.State.Turn,
			Actual: s.Actual,
			Chosen: d.Move,
			Branch: d.Branch,
		})
	}
	return report
}
