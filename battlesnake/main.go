// Package main implements a Battlesnake API server backed by the single-turn
// heuristic engine in package heuristic.
//
// Every request is decided independently: the server keeps no game state
// besides the optional decision recorder.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brensch/snekfang/game"
	"github.com/brensch/snekfang/heuristic"
	"github.com/brensch/snekfang/logging"
	"github.com/brensch/snekfang/recorder"
)

type options struct {
	listen      string
	logLevel    string
	logFormat   string
	recordDir   string
	latencyWarn time.Duration

	pursuit         string
	pursuitDistance int
	forage          bool
	fallback        string

	appearance Appearance
}

func parseFlags(args []string) (options, error) {
	def := heuristic.DefaultConfig()
	look := DefaultAppearance()

	fs := flag.NewFlagSet("battlesnake", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var o options
	fs.StringVar(&o.listen, "listen", getEnvOrDefault("LISTEN", ":"+getEnvOrDefault("PORT", "3000")), "HTTP listen address")
	fs.StringVar(&o.logLevel, "log-level", getEnvOrDefault("LOG_LEVEL", "info"), "debug, info, warn or error")
	fs.StringVar(&o.logFormat, "log-format", getEnvOrDefault("LOG_FORMAT", logging.FormatText), "text, json or pretty")
	fs.StringVar(&o.recordDir, "record-dir", getEnvOrDefault("RECORD_DIR", ""), "Write one parquet file per finished game here (empty disables)")
	fs.DurationVar(&o.latencyWarn, "latency-warn", getEnvDurationOrDefault("LATENCY_WARN", 100*time.Millisecond), "Warn when a decision takes longer than this")

	fs.StringVar(&o.pursuit, "pursuit", getEnvOrDefault("PURSUIT", def.Pursuit), "Pursuit rule: proximity, largest or none")
	fs.IntVar(&o.pursuitDistance, "pursuit-distance", getEnvIntOrDefault("PURSUIT_DISTANCE", def.PursuitDistance), "Max head distance for the proximity rule")
	fs.BoolVar(&o.forage, "forage", getEnvBoolOrDefault("FORAGE", def.Forage), "Chase uncontested food")
	fs.StringVar(&o.fallback, "fallback", getEnvOrDefault("FALLBACK", def.Fallback.String()), "Move returned when no move is safe")

	fs.StringVar(&o.appearance.Author, "author", getEnvOrDefault("AUTHOR", look.Author), "Author shown on the index")
	fs.StringVar(&o.appearance.Color, "color", getEnvOrDefault("COLOR", look.Color), "Snake color")
	fs.StringVar(&o.appearance.HeadType, "head", getEnvOrDefault("HEAD", look.HeadType), "Head style")
	fs.StringVar(&o.appearance.TailType, "tail", getEnvOrDefault("TAIL", look.TailType), "Tail style")
	o.appearance.Version = look.Version

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

func (o options) engineConfig() (heuristic.Config, error) {
	fallback, err := game.ParseMove(o.fallback)
	if err != nil {
		return heuristic.Config{}, fmt.Errorf("fallback: %w", err)
	}
	cfg := heuristic.Config{
		Pursuit:         o.pursuit,
		PursuitDistance: o.pursuitDistance,
		Forage:          o.forage,
		Fallback:        fallback,
	}
	if err := cfg.Validate(); err != nil {
		return heuristic.Config{}, err
	}
	return cfg, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "flag parse: %v\n", err)
		os.Exit(2)
	}

	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log level: %v\n", err)
		os.Exit(2)
	}
	logger, err := logging.New(os.Stderr, o.logFormat, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log format: %v\n", err)
		os.Exit(2)
	}

	if err := run(o, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(o options, logger *slog.Logger) error {
	cfg, err := o.engineConfig()
	if err != nil {
		return err
	}

	var sink recorder.Sink = recorder.Discard{}
	if o.recordDir != "" {
		rec, err := recorder.Open(o.recordDir)
		if err != nil {
			return fmt.Errorf("open recorder: %w", err)
		}
		logger.Info("recording decisions", "dir", o.recordDir, "games_written", rec.Written())
		sink = rec
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Error("close recorder", "err", err)
		}
	}()

	server, err := NewServer(cfg, o.appearance, logger, sink, o.latencyWarn)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              o.listen,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("battlesnake server listening",
			"addr", o.listen,
			"pursuit", cfg.Pursuit,
			"pursuit_distance", cfg.PursuitDistance,
			"forage", cfg.Forage,
			"fallback", cfg.Fallback.String(),
			"record_dir", o.recordDir,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Environment variable helpers
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		var i int
		if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
