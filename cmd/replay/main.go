// Command replay measures how often the engine agrees with moves that were
// actually played, either in public games streamed from the engine or in
// parquet archives written by the server's recorder.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/brensch/snekfang/game"
	"github.com/brensch/snekfang/heuristic"
	"github.com/brensch/snekfang/logging"
	"github.com/brensch/snekfang/recorder"
	"github.com/brensch/snekfang/replay"
)

func main() {
	def := heuristic.DefaultConfig()

	gameIDs := flag.String("games", "", "Comma-separated game ids to download")
	statsURL := flag.String("stats-url", "", "Player stats page to discover game ids from")
	maxGames := flag.Int("max-games", 20, "Cap on discovered games")
	snake := flag.String("snake", "", "Snake name or id to evaluate (required for downloaded games)")
	fromParquet := flag.String("from-parquet", "", "Glob of recorder parquet files to evaluate instead of downloading")
	engineURL := flag.String("engine-url", replay.DefaultConfig().EngineURL, "Engine websocket URL template")
	pursuit := flag.String("pursuit", def.Pursuit, "Pursuit rule: proximity, largest or none")
	pursuitDistance := flag.Int("pursuit-distance", def.PursuitDistance, "Max head distance for the proximity rule")
	forage := flag.Bool("forage", def.Forage, "Chase uncontested food")
	fallback := flag.String("fallback", def.Fallback.String(), "Move returned when no move is safe")
	seed := flag.Int64("seed", 1, "RNG seed for the explore branch")
	showDisagreements := flag.Int("show", 10, "Print up to this many disagreements")
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

	fb, err := game.ParseMove(*fallback)
	if err != nil {
		logger.Error("invalid fallback", "err", err)
		os.Exit(2)
	}
	cfg := heuristic.Config{Pursuit: *pursuit, PursuitDistance: *pursuitDistance, Forage: *forage, Fallback: fb}
	sel, err := heuristic.NewSelector(cfg, rand.New(rand.NewSource(*seed)))
	if err != nil {
		logger.Error("invalid engine config", "err", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var samples []replay.Sample
	if *fromParquet != "" {
		paths, err := filepath.Glob(*fromParquet)
		if err != nil {
			logger.Error("bad glob", "pattern", *fromParquet, "err", err)
			os.Exit(2)
		}
		for _, p := range paths {
			rows, err := recorder.ReadTurns(p)
			if err != nil {
				logger.Warn("skip archive", "path", p, "err", err)
				continue
			}
			samples = append(samples, replay.SamplesFromTurns(rows)...)
		}
		logger.Info("loaded archives", "files", len(paths), "turns", len(samples))
	} else {
		ids := splitIDs(*gameIDs)
		if *statsURL != "" {
			client := &http.Client{Timeout: 30 * time.Second}
			found, err := replay.Discover(ctx, client, *statsURL)
			if err != nil {
				logger.Error("discover games", "url", *statsURL, "err", err)
				os.Exit(1)
			}
			if len(found) > *maxGames {
				found = found[:*maxGames]
			}
			logger.Info("discovered games", "url", *statsURL, "games", len(found))
			ids = append(ids, found...)
		}
		if len(ids) == 0 || *snake == "" {
			fmt.Fprintln(os.Stderr, "need -snake and one of -games, -stats-url or -from-parquet")
			os.Exit(2)
		}

		rcfg := replay.DefaultConfig()
		rcfg.EngineURL = *engineURL
		d := replay.NewDownloader(rcfg, logger)
		for _, id := range ids {
			if ctx.Err() != nil {
				break
			}
			g, err := d.Download(ctx, id)
			if err != nil {
				logger.Warn("download failed", "game", id, "err", err)
				continue
			}
			snakeID, ok := replay.FindSnake(g.Frames, *snake)
			if !ok {
				logger.Warn("snake not in game", "game", id, "snake", *snake)
				continue
			}
			s := replay.SamplesFromGame(g, snakeID)
			logger.Info("downloaded", "game", id, "frames", len(g.Frames), "turns", len(s))
			samples = append(samples, s...)
		}
	}

	report := replay.Evaluate(samples, sel)
	fmt.Print(report.String())
	for i, d := range report.Disagreements {
		if i >= *showDisagreements {
			fmt.Printf("  ... %d more\n", len(report.Disagreements)-i)
			break
		}
		fmt.Printf("  %s turn %d: played %s, engine %s (%s)\n", d.GameID, d.Turn, d.Actual, d.Chosen, d.Branch)
	}
}

func splitIDs(s string) []string {
	var out []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
