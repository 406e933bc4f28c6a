// Package replay re-runs the engine over recorded games and measures how
// often it agrees with the moves that were actually played.
//
// Games come either from the public engine's event stream or from parquet
// archives written by the recorder.
package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brensch/snekfang/game"
)

// Config holds downloader configuration
type Config struct {
	EngineURL      string // WebSocket URL template
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

func DefaultConfig() Config {
	return Config{
		EngineURL:      "wss://engine.battlesnake.com/games/%s/events",
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    30 * time.Second,
	}
}

// gameEvent is one message from the event stream.
type gameEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type gameInfo struct {
	Game struct {
		ID     string `json:"id"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"game"`
	Ruleset struct {
		Name string `json:"name"`
	} `json:"ruleset"`
}

// Frame is one turn of a streamed game.
type Frame struct {
	Turn   int          `json:"turn"`
	Snakes []FrameSnake `json:"snakes"`
	Food   []Coord      `json:"food"`
}

type FrameSnake struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Health int     `json:"health"`
	Body   []Coord `json:"body"`
	Death  *Death  `json:"death,omitempty"`
}

type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Death struct {
	Cause string `json:"cause"`
	Turn  int    `json:"turn"`
}

// Game is a downloaded game.
type Game struct {
	ID      string
	Width   int
	Height  int
	Ruleset string
	Frames  []Frame
}

// Alive reports whether the snake is still on the board in this frame.
func (s FrameSnake) Alive() bool {
	return s.Death == nil && len(s.Body) > 0
}

// Snake returns the snake with the given id.
func (f Frame) Snake(id string) (FrameSnake, bool) {
	for _, s := range f.Snakes {
		if s.ID == id {
			return s, true
		}
	}
	return FrameSnake{}, false
}

// State converts the frame to an engine snapshot from youID's point of view.
// Dead snakes are left out.
func (f Frame) State(width, height int, youID string) *game.GameState {
	state := &game.GameState{
		Width:  int32(width),
		Height: int32(height),
		YouId:  youID,
		Turn:   int32(f.Turn),
		Food:   make([]game.Point, len(f.Food)),
	}
	for i, c := range f.Food {
		state.Food[i] = game.Point{X: int32(c.X), Y: int32(c.Y)}
	}
	for _, s := range f.Snakes {
		if !s.Alive() {
			continue
		}
		snake := game.Snake{Id: s.ID, Health: int32(s.Health), Body: make([]game.Point, len(s.Body))}
		for j, c := range s.Body {
			snake.Body[j] = game.Point{X: int32(c.X), Y: int32(c.Y)}
		}
		state.Snakes = append(state.Snakes, snake)
	}
	return state
}

// Downloader streams games from the engine websocket.
type Downloader struct {
	config Config
	logger *slog.Logger
}

func NewDownloader(config Config, logger *slog.Logger) *Downloader {
	return &Downloader{config: config, logger: logger}
}

// Download connects to the game's event stream and collects every frame.
// A stream that drops after delivering frames is treated as complete.
func (d *Downloader) Download(ctx context.Context, gameID string) (Game, error) {
	url := fmt.Sprintf(d.config.EngineURL, gameID)

	dialer := websocket.Dialer{
		HandshakeTimeout: d.config.ConnectTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return Game{}, fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	// Unblock ReadMessage when ctx is cancelled.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	g := Game{ID: gameID}

readLoop:
	for {
		conn.SetReadDeadline(time.Now().Add(d.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				break
			}
			if ctx.Err() != nil {
				return Game{}, ctx.Err()
			}
			if len(g.Frames) > 0 {
				d.logger.Debug("stream ended early", "game", gameID, "frames", len(g.Frames), "err", err)
				break
			}
			return Game{}, fmt.Errorf("read error: %w", err)
		}

		var event gameEvent
		if err := json.Unmarshal(message, &event); err != nil {
			d.logger.Warn("failed to parse event", "game", gameID, "err", err)
			continue
		}

		switch event.Type {
		case "game_info":
			var info gameInfo
			if err := json.Unmarshal(event.Data, &info); err != nil {
				d.logger.Warn("failed to parse game_info", "game", gameID, "err", err)
				continue
			}
			g.Width, g.Height = info.Game.Width, info.Game.Height
			g.Ruleset = info.Ruleset.Name

		case "frame":
			var frame Frame
			if err := json.Unmarshal(event.Data, &frame); err != nil {
				d.logger.Warn("failed to parse frame", "game", gameID, "err", err)
				continue
			}
			g.Frames = append(g.Frames, frame)

		case "game_end":
			break readLoop
		}
	}

	if len(g.Frames) == 0 {
		return Game{}, fmt.Errorf("game %s: no frames", gameID)
	}
	if g.Width == 0 || g.Height == 0 {
		g.Width, g.Height = 11, 11
		d.logger.Debug("no board size in game_info, assuming 11x11", "game", gameID)
	}
	return g, nil
}

// FindSnake returns the id of the first snake whose id or name matches.
func FindSnake(frames []Frame, nameOrID string) (string, bool) {
	for _, f := range frames {
		for _, s := range f.Snakes {
			if s.ID == nameOrID || s.Name == nameOrID {
				return s.ID, true
			}
		}
	}
	return "", false
}
