// Command arena plays local games between heuristic engine configurations
// and reports win rates. Each game can be archived to parquet for replay.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/brensch/snekfang/arena"
	"github.com/brensch/snekfang/heuristic"
	"github.com/brensch/snekfang/logging"
	"github.com/brensch/snekfang/recorder"
)

func main() {
	def := arena.DefaultConfig()

	games := flag.Int("games", 100, "Number of games to play")
	snakes := flag.Int("snakes", def.Snakes, "Snakes per game")
	size := flag.Int("size", int(def.Width), "Board width and height")
	maxTurns := flag.Int("max-turns", def.MaxTurns, "Stop a game after this many turns")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time based)")
	outDir := flag.String("out-dir", "", "Write one parquet file per game here (empty disables)")
	pursuit := flag.String("pursuit", heuristic.PursuitProximity, "Comma-separated pursuit rules, one per snake slot (proximity, largest, none)")
	pursuitDistance := flag.Int("pursuit-distance", heuristic.DefaultConfig().PursuitDistance, "Max head distance for the proximity rule")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	logFormat := flag.String("log-format", logging.FormatText, "text, json or pretty")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log level: %v\n", err)
		os.Exit(2)
	}
	logger, err := logging.New(os.Stderr, *logFormat, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log format: %v\n", err)
		os.Exit(2)
	}

	cfg := def
	cfg.Snakes = *snakes
	cfg.Width, cfg.Height = int32(*size), int32(*size)
	cfg.MaxTurns = *maxTurns
	for _, name := range strings.Split(*pursuit, ",") {
		engine := heuristic.DefaultConfig()
		engine.Pursuit = strings.TrimSpace(name)
		engine.PursuitDistance = *pursuitDistance
		cfg.Engines = append(cfg.Engines, engine)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid arena config", "err", err)
		os.Exit(2)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("arena starting", "games", *games, "snakes", cfg.Snakes, "size", *size, "seed", *seed, "pursuit", *pursuit)

	wins := make(map[string]int)
	trapped := make(map[string]int)
	draws, unfinished, totalTurns := 0, 0, 0
	start := time.Now()

	played := 0
	for ; played < *games && ctx.Err() == nil; played++ {
		res, err := arena.Play(ctx, cfg, rng)
		if err != nil {
			logger.Error("game failed", "err", err)
			os.Exit(1)
		}
		totalTurns += res.Turns
		for id, n := range res.Trapped {
			trapped[id] += n
		}

		switch {
		case !res.Completed:
			unfinished++
		case res.Winner == "":
			draws++
		default:
			wins[res.Winner]++
		}
		logger.Debug("game finished", "game", res.GameID, "turns", res.Turns, "winner", res.Winner, "completed", res.Completed)

		if *outDir != "" && len(res.Rows) > 0 {
			path := filepath.Join(*outDir, res.GameID+".parquet")
			if err := recorder.WriteGameParquet(path, res.Rows); err != nil {
				logger.Error("write game", "game", res.GameID, "err", err)
				os.Exit(1)
			}
		}
	}

	elapsed := time.Since(start)
	fmt.Printf("\n%d games in %s (avg %.1f turns)\n", played, elapsed.Round(time.Millisecond), avg(totalTurns, played))
	for i := 0; i < cfg.Snakes; i++ {
		id := arena.SnakeID(i)
		fmt.Printf("  %-7s %-10s wins=%-5d %5.1f%%  trapped=%d\n", id, cfg.EngineFor(i).Pursuit, wins[id], 100*avg(wins[id], played), trapped[id])
	}
	fmt.Printf("  draws=%d unfinished=%d\n", draws, unfinished)
}

func avg(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
