// Package arena plays whole games between heuristic engines on a local
// simultaneous-move simulator.
package arena

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/brensch/snekfang/game"
	"github.com/brensch/snekfang/heuristic"
	"github.com/brensch/snekfang/recorder"
	"github.com/brensch/snekfang/rules"
)

// Config describes one arena game.
type Config struct {
	Snakes   int
	Width    int32
	Height   int32
	MaxTurns int

	// Engines are assigned to snakes by index, cycling when there are fewer
	// engines than snakes. Empty means heuristic.DefaultConfig for all.
	Engines []heuristic.Config
	Food    game.FoodSettings
}

func DefaultConfig() Config {
	return Config{
		Snakes:   2,
		Width:    11,
		Height:   11,
		MaxTurns: 500,
		Food:     game.DefaultFoodSettings,
	}
}

func (c Config) Validate() error {
	if c.Snakes < 1 || c.Snakes > 8 {
		return fmt.Errorf("snakes must be between 1 and 8, got %d", c.Snakes)
	}
	if c.Width < 3 || c.Height < 3 {
		return fmt.Errorf("board must be at least 3x3, got %dx%d", c.Width, c.Height)
	}
	if n := len(startPoints(c.Width, c.Height)); c.Snakes > n {
		return fmt.Errorf("a %dx%d board has room for %d snakes, got %d", c.Width, c.Height, n, c.Snakes)
	}
	if c.MaxTurns <= 0 {
		return fmt.Errorf("max turns must be positive, got %d", c.MaxTurns)
	}
	for i, e := range c.Engines {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("engine %d: %w", i, err)
		}
	}
	return nil
}

// EngineFor returns the engine config driving snake index i.
func (c Config) EngineFor(i int) heuristic.Config {
	if len(c.Engines) == 0 {
		return heuristic.DefaultConfig()
	}
	return c.Engines[i%len(c.Engines)]
}

// Result is a finished (or interrupted) game.
type Result struct {
	GameID string
	Turns  int
	// Winner is the last snake standing, "" for a draw, a solo game or a
	// game cut off by MaxTurns or ctx.
	Winner    string
	Completed bool
	Final     *game.GameState
	Rows      []recorder.TurnRow
	// Trapped counts, per snake, the turns it started with no safe move and
	// had to play its fallback.
	Trapped map[string]int
}

// SnakeID names the snake at index i.
func SnakeID(i int) string {
	return fmt.Sprintf("snake%d", i+1)
}

// Play runs one game to the end. Every live snake decides each turn from its
// own point of view and all moves resolve together. Cancelling ctx stops the
// game between turns and returns what was played so far.
//
// rng drives start positions, food and the explore branch. A nil rng is
// replaced by a time-seeded source.
func Play(ctx context.Context, cfg Config, rng *rand.Rand) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	rng = orTimeSeeded(rng)

	selectors := make(map[string]*heuristic.Selector, cfg.Snakes)
	for i := 0; i < cfg.Snakes; i++ {
		sel, err := heuristic.NewSelector(cfg.EngineFor(i), rng)
		if err != nil {
			return Result{}, fmt.Errorf("engine for %s: %w", SnakeID(i), err)
		}
		selectors[SnakeID(i)] = sel
	}

	result := Result{GameID: uuid.NewString(), Trapped: make(map[string]int)}
	state := InitialState(cfg, rng)
	rows := make([]recorder.TurnRow, 0, 256)

	for {
		if err := ctx.Err(); err != nil {
			break
		}
		if game.IsGameOver(state, cfg.Snakes) {
			result.Completed = true
			break
		}
		if int(state.Turn) >= cfg.MaxTurns {
			break
		}

		moves := make(map[string]game.Move, len(state.Snakes))
		for _, snake := range state.Snakes {
			view := state.Clone()
			view.YouId = snake.Id
			if rules.IsTerminal(view) {
				result.Trapped[snake.Id]++
			}
			d := selectors[snake.Id].Decide(view)
			moves[snake.Id] = d.Move
			rows = append(rows, recorder.NewTurnRow(result.GameID, view, d, 0))
		}

		state = game.NextStateSimultaneous(state, moves, rng, cfg.Food)
	}

	result.Turns = int(state.Turn)
	result.Final = state
	result.Rows = rows
	if result.Completed && cfg.Snakes > 1 {
		result.Winner = game.Winner(state)
	}
	return result, nil
}

// InitialState places cfg.Snakes stacked length-3 snakes on distinct start
// points, puts starting food next to each of them and tops up to the
// minimum. A nil rng is replaced by a time-seeded source.
func InitialState(cfg Config, rng *rand.Rand) *game.GameState {
	rng = orTimeSeeded(rng)
	starts := startPoints(cfg.Width, cfg.Height)
	rng.Shuffle(len(starts), func(i, j int) { starts[i], starts[j] = starts[j], starts[i] })

	state := &game.GameState{
		Width:  cfg.Width,
		Height: cfg.Height,
		Snakes: make([]game.Snake, cfg.Snakes),
	}
	for i := range state.Snakes {
		p := starts[i]
		state.Snakes[i] = game.Snake{
			Id:     SnakeID(i),
			Health: 100,
			Body:   []game.Point{p, p, p},
		}
	}
	state.YouId = state.Snakes[0].Id

	game.PlaceStartingFood(state, rng)
	// Minimum only at game start.
	game.SpawnFood(state, rng, game.FoodSettings{MinimumFood: cfg.Food.MinimumFood})
	return state
}

func orTimeSeeded(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// startPoints returns corners one cell in, then edge midpoints, without
// duplicates on small boards.
func startPoints(w, h int32) []game.Point {
	mx, my := (w-1)/2, (h-1)/2
	pts := []game.Point{
		{X: 1, Y: 1},
		{X: w - 2, Y: h - 2},
		{X: 1, Y: h - 2},
		{X: w - 2, Y: 1},
		{X: mx, Y: 1},
		{X: mx, Y: h - 2},
		{X: 1, Y: my},
		{X: w - 2, Y: my},
	}
	seen := make(map[game.Point]bool, len(pts))
	out := pts[:0]
	for _, p := range pts {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
