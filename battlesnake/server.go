package main

import (
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brensch/snekfang/heuristic"
	"github.com/brensch/snekfang/recorder"
)

// Appearance is the static customisation handed out by / and /start.
type Appearance struct {
	Author   string
	Color    string
	HeadType string
	TailType string
	Version  string
}

func DefaultAppearance() Appearance {
	return Appearance{
		Author:   "snekfang",
		Color:    "#00FF00",
		HeadType: "fang",
		TailType: "round-bum",
		Version:  "1.0.0",
	}
}

// Server holds the engine configuration and the shell's collaborators.
// Handlers build a fresh Selector per move, so games run in parallel without
// locking.
type Server struct {
	engine      heuristic.Config
	strategies  []heuristic.Strategy
	appearance  Appearance
	logger      *slog.Logger
	recorder    recorder.Sink
	latencyWarn time.Duration

	newRand func() *rand.Rand
}

func NewServer(engine heuristic.Config, appearance Appearance, logger *slog.Logger, rec recorder.Sink, latencyWarn time.Duration) (*Server, error) {
	strategies, err := engine.Strategies()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = recorder.Discard{}
	}
	return &Server{
		engine:      engine,
		strategies:  strategies,
		appearance:  appearance,
		logger:      logger,
		recorder:    rec,
		latencyWarn: latencyWarn,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}, nil
}

// Router wires the Battlesnake endpoints.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/", s.handleIndex)
	r.GET("/ping", s.handlePing)
	r.POST("/ping", s.handlePing)
	r.POST("/start", s.handleStart)
	r.POST("/move", s.handleMove)
	r.POST("/end", s.handleEnd)
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took_ms", time.Since(start).Milliseconds(),
		)
	}
}

// handleIndex returns the Battlesnake info
func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, BattlesnakeInfoResponse{
		APIVersion: "1",
		Author:     s.appearance.Author,
		Color:      s.appearance.Color,
		Head:       s.appearance.HeadType,
		Tail:       s.appearance.TailType,
		Version:    s.appearance.Version,
	})
}

func (s *Server) handlePing(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// handleStart is called when a game starts
func (s *Server) handleStart(c *gin.Context) {
	req := s.bindLifecycle(c)
	s.logger.Info("game started", "game", req.Game.ID, "turn", req.Turn, "you", req.You.Name)
	c.JSON(http.StatusOK, StartResponse{
		Color:    s.appearance.Color,
		HeadType: s.appearance.HeadType,
		TailType: s.appearance.TailType,
	})
}

// bindLifecycle decodes a /start or /end body. A bad body is logged and
// treated as empty.
func (s *Server) bindLifecycle(c *gin.Context) LifecycleRequest {
	var req LifecycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("unreadable lifecycle body", "path", c.FullPath(), "err", err)
		return LifecycleRequest{}
	}
	return req
}

// handleMove runs the engine on one snapshot
func (s *Server) handleMove(c *gin.Context) {
	start := time.Now()

	var req GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateRequest(&req); err != nil {
		s.logger.Warn("rejected move request", "game", req.Game.ID, "turn", req.Turn, "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state := convertToGameState(&req)
	selector := &heuristic.Selector{
		Strategies: s.strategies,
		Fallback:   s.engine.Fallback,
		Rand:       s.newRand(),
	}
	decision := selector.Decide(state)
	took := time.Since(start)

	logger := s.logger.With("game", req.Game.ID, "turn", req.Turn)
	logger.Info("move",
		"move", decision.Move.String(),
		"branch", decision.Branch,
		"safe", len(decision.Safe),
		"took_ms", took.Milliseconds(),
	)
	if s.latencyWarn > 0 && took > s.latencyWarn {
		logger.Warn("slow decision", "took", took, "budget", s.latencyWarn)
	}

	if req.Game.ID != "" {
		if err := s.recorder.Record(recorder.NewTurnRow(req.Game.ID, state, decision, took)); err != nil {
			logger.Error("record turn", "err", err)
		}
	}

	c.JSON(http.StatusOK, MoveResponse{Move: decision.Move.String(), Shout: decision.Branch})
}

// handleEnd is called when a game ends
func (s *Server) handleEnd(c *gin.Context) {
	req := s.bindLifecycle(c)

	result := "unknown"
	if req.You.ID != "" {
		result = "lost"
		for _, snake := range req.Board.Snakes {
			if snake.ID == req.You.ID {
				result = "won"
				break
			}
		}
		if result == "lost" && len(req.Board.Snakes) == 0 {
			result = "draw"
		}
	}
	s.logger.Info("game ended", "game", req.Game.ID, "turn", req.Turn, "result", result)

	if req.Game.ID != "" {
		path, err := s.recorder.Finish(req.Game.ID)
		switch {
		case err != nil:
			s.logger.Error("record game", "game", req.Game.ID, "err", err)
		case path != "":
			s.logger.Info("game recorded", "game", req.Game.ID, "path", path)
		}
	}

	c.String(http.StatusOK, "ok")
}
