package main

import (
	"fmt"
	"math"

	"github.com/brensch/snekfang/game"
)

// Battlesnake API request/response types

type BattlesnakeInfoResponse struct {
	APIVersion string `json:"apiversion"`
	Author     string `json:"author"`
	Color      string `json:"color"`
	Head       string `json:"head"`
	Tail       string `json:"tail"`
	Version    string `json:"version"`
}

type StartResponse struct {
	Color    string `json:"color"`
	HeadType string `json:"headType"`
	TailType string `json:"tailType"`
}

type GameRequest struct {
	Game  Game         `json:"game"`
	Turn  int          `json:"turn"`
	Board *Board       `json:"board" binding:"required"`
	You   *Battlesnake `json:"you" binding:"required"`
}

// LifecycleRequest is the body of /start and /end. Both answer whatever they
// receive, so nothing in it is required.
type LifecycleRequest struct {
	Game  Game `json:"game"`
	Turn  int  `json:"turn"`
	Board struct {
		Snakes []SnakeRef `json:"snakes"`
	} `json:"board"`
	You SnakeRef `json:"you"`
}

type SnakeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Game struct {
	ID      string `json:"id"`
	Timeout int    `json:"timeout"`
	Source  string `json:"source"`
}

type Board struct {
	Height int           `json:"height" binding:"required,gt=0"`
	Width  int           `json:"width" binding:"required,gt=0"`
	Food   []Coord       `json:"food"`
	Snakes []Battlesnake `json:"snakes"`
}

type Battlesnake struct {
	ID     string  `json:"id" binding:"required"`
	Name   string  `json:"name"`
	Health int     `json:"health"`
	Body   []Coord `json:"body" binding:"required,min=1"`
}

type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type MoveResponse struct {
	Move  string `json:"move"`
	Shout string `json:"shout,omitempty"`
}

// validateRequest rejects snapshots the engine must never see. Binding has
// already checked presence and positive dimensions. The engine works in
// int32, so anything that would not survive the conversion is refused here.
func validateRequest(req *GameRequest) error {
	b := req.Board
	if b.Width > math.MaxInt32 || b.Height > math.MaxInt32 {
		return fmt.Errorf("board %dx%d exceeds %d", b.Width, b.Height, math.MaxInt32)
	}
	if req.Turn < 0 || req.Turn > math.MaxInt32 {
		return fmt.Errorf("turn %d out of range", req.Turn)
	}
	inBounds := func(c Coord) bool {
		return c.X >= 0 && c.X < b.Width && c.Y >= 0 && c.Y < b.Height
	}

	for i, f := range b.Food {
		if !inBounds(f) {
			return fmt.Errorf("food[%d] (%d,%d) outside %dx%d board", i, f.X, f.Y, b.Width, b.Height)
		}
	}
	check := func(s Battlesnake) error {
		if len(s.Body) == 0 {
			return fmt.Errorf("snake %q has an empty body", s.ID)
		}
		if s.Health < math.MinInt32 || s.Health > math.MaxInt32 {
			return fmt.Errorf("snake %q health %d out of range", s.ID, s.Health)
		}
		for j, c := range s.Body {
			if !inBounds(c) {
				return fmt.Errorf("snake %q body[%d] (%d,%d) outside %dx%d board", s.ID, j, c.X, c.Y, b.Width, b.Height)
			}
		}
		return nil
	}
	for _, s := range b.Snakes {
		if err := check(s); err != nil {
			return err
		}
	}
	return check(*req.You)
}

// convertToGameState converts a validated request to the engine's state.
// You is added to the roster when the board list omits it.
func convertToGameState(req *GameRequest) *game.GameState {
	state := &game.GameState{
		Width:  int32(req.Board.Width),
		Height: int32(req.Board.Height),
		YouId:  req.You.ID,
		Turn:   int32(req.Turn),
	}

	state.Food = make([]game.Point, len(req.Board.Food))
	for i, f := range req.Board.Food {
		state.Food[i] = game.Point{X: int32(f.X), Y: int32(f.Y)}
	}

	state.Snakes = make([]game.Snake, 0, len(req.Board.Snakes)+1)
	haveYou := false
	for _, s := range req.Board.Snakes {
		state.Snakes = append(state.Snakes, toSnake(s))
		if s.ID == req.You.ID {
			haveYou = true
		}
	}
	if !haveYou {
		state.Snakes = append(state.Snakes, toSnake(*req.You))
	}

	return state
}

func toSnake(s Battlesnake) game.Snake {
	snake := game.Snake{
		Id:     s.ID,
		Health: int32(s.Health),
		Body:   make([]game.Point, len(s.Body)),
	}
	for j, b := range s.Body {
		snake.Body[j] = game.Point{X: int32(b.X), Y: int32(b.Y)}
	}
	return snake
}
