// Package recorder archives per-turn decisions to parquet for offline review.
//
// Recording is write-only: nothing read back from an archive feeds a later
// decision.
package recorder

import (
	"time"

	"github.com/brensch/snekfang/game"
	"github.com/brensch/snekfang/heuristic"
)

// TurnRow is one decided turn: the snapshot we saw and what we did with it.
type TurnRow struct {
	GameID string `parquet:"game_id,dict"`
	Turn   int32  `parquet:"turn"`
	Width  int32  `parquet:"width"`
	Height int32  `parquet:"height"`

	FoodX []int32 `parquet:"food_x"`
	FoodY []int32 `parquet:"food_y"`

	Snakes []SnakeRow `parquet:"snakes"`

	YouID     string   `parquet:"you_id,dict"`
	Move      string   `parquet:"move,dict"`
	Branch    string   `parquet:"branch,dict"`
	SafeMoves []string `parquet:"safe_moves"`

	TargetX *int32 `parquet:"target_x,optional"`
	TargetY *int32 `parquet:"target_y,optional"`

	TookMicros int64 `parquet:"took_us"`
}

type SnakeRow struct {
	ID     string  `parquet:"id,dict"`
	Health int32   `parquet:"health"`
	BodyX  []int32 `parquet:"body_x"`
	BodyY  []int32 `parquet:"body_y"`
}

// NewTurnRow flattens a state and the decision made on it.
func NewTurnRow(gameID string, state *game.GameState, d heuristic.Decision, took time.Duration) TurnRow {
	row := TurnRow{
		GameID:     gameID,
		Turn:       state.Turn,
		Width:      state.Width,
		Height:     state.Height,
		FoodX:      make([]int32, len(state.Food)),
		FoodY:      make([]int32, len(state.Food)),
		Snakes:     make([]SnakeRow, len(state.Snakes)),
		YouID:      state.YouId,
		Move:       d.Move.String(),
		Branch:     d.Branch,
		SafeMoves:  make([]string, len(d.Safe)),
		TookMicros: took.Microseconds(),
	}
	for i, f := range state.Food {
		row.FoodX[i], row.FoodY[i] = f.X, f.Y
	}
	for i, s := range state.Snakes {
		sr := SnakeRow{
			ID:     s.Id,
			Health: s.Health,
			BodyX:  make([]int32, len(s.Body)),
			BodyY:  make([]int32, len(s.Body)),
		}
		for j, p := range s.Body {
			sr.BodyX[j], sr.BodyY[j] = p.X, p.Y
		}
		row.Snakes[i] = sr
	}
	for i, c := range d.Safe {
		row.SafeMoves[i] = c.Move.String()
	}
	if d.Target != nil {
		x, y := d.Target.X, d.Target.Y
		row.TargetX, row.TargetY = &x, &y
	}
	return row
}

// State rebuilds the snapshot stored in the row.
func (r TurnRow) State() *game.GameState {
	state := &game.GameState{
		Width:  r.Width,
		Height: r.Height,
		YouId:  r.YouID,
		Turn:   r.Turn,
		Food:   make([]game.Point, len(r.FoodX)),
		Snakes: make([]game.Snake, len(r.Snakes)),
	}
	for i := range r.FoodX {
		state.Food[i] = game.Point{X: r.FoodX[i], Y: r.FoodY[i]}
	}
	for i, s := range r.Snakes {
		body := make([]game.Point, len(s.BodyX))
		for j := range s.BodyX {
			body[j] = game.Point{X: s.BodyX[j], Y: s.BodyY[j]}
		}
		state.Snakes[i] = game.Snake{Id: s.ID, Health: s.Health, Body: body}
	}
	return state
}
