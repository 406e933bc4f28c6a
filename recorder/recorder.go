package recorder

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Sink receives decided turns and is told when a game ends.
type Sink interface {
	// Record buffers a turn. An error means an older game had to be flushed
	// to make room and that write failed; the row itself is kept.
	Record(row TurnRow) error
	// Finish writes the game's turns and returns the file path, or "" when
	// nothing was written.
	Finish(gameID string) (string, error)
	Close() error
}

// Recorder buffers turns per game and writes one parquet file per game when
// it ends. It is safe for concurrent use.
//
// At most maxGames games are buffered at once. A game that never sees /end
// is flushed early, as a partial game, once maxGames newer games have
// arrived.
type Recorder struct {
	dir      string
	maxRows  int
	maxGames int

	mu      sync.Mutex
	games   map[string]*openGame
	seq     uint64
	written *WrittenLog
}

type openGame struct {
	rows    []TurnRow
	touched uint64
}

const (
	// DefaultMaxRows caps the turns buffered for a single game.
	DefaultMaxRows = 2000
	// DefaultMaxGames caps the games buffered at once.
	DefaultMaxGames = 256
)

// Open creates a recorder writing into dir. The written log lives at
// dir/written_games.log.
func Open(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, fmt.Errorf("recorder dir is required")
	}
	written, err := OpenWrittenLog(filepath.Join(dir, "written_games.log"))
	if err != nil {
		return nil, err
	}
	return &Recorder{
		dir:      dir,
		maxRows:  DefaultMaxRows,
		maxGames: DefaultMaxGames,
		games:    make(map[string]*openGame),
		written:  written,
	}, nil
}

// Record buffers a row. Rows past maxRows for one game are dropped. Starting
// a new game while maxGames are open flushes the least recently touched one.
func (r *Recorder) Record(row TurnRow) error {
	r.mu.Lock()
	g := r.games[row.GameID]
	evict := ""
	if g == nil {
		if len(r.games) >= r.maxGames {
			evict = r.stalestLocked()
		}
		g = &openGame{}
		r.games[row.GameID] = g
	}
	r.seq++
	g.touched = r.seq
	if len(g.rows) < r.maxRows {
		g.rows = append(g.rows, row)
	}
	r.mu.Unlock()

	if evict == "" {
		return nil
	}
	if _, err := r.Finish(evict); err != nil {
		return fmt.Errorf("flush stale game %s: %w", evict, err)
	}
	return nil
}

func (r *Recorder) stalestLocked() string {
	oldest, id := uint64(0), ""
	for gameID, g := range r.games {
		if id == "" || g.touched < oldest {
			oldest, id = g.touched, gameID
		}
	}
	return id
}

// Written returns how many games have been written, including previous runs.
func (r *Recorder) Written() int {
	return r.written.Count()
}

func (r *Recorder) Finish(gameID string) (string, error) {
	r.mu.Lock()
	var rows []TurnRow
	if g := r.games[gameID]; g != nil {
		rows = g.rows
	}
	delete(r.games, gameID)
	r.mu.Unlock()

	if len(rows) == 0 || r.written.Has(gameID) {
		return "", nil
	}
	// Game IDs come off the wire and become file names.
	if gameID != filepath.Base(gameID) || strings.HasPrefix(gameID, ".") {
		return "", fmt.Errorf("invalid game id %q", gameID)
	}

	// Concurrent requests can land out of order.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Turn < rows[j].Turn })

	outPath := filepath.Join(r.dir, gameID+".parquet")
	if err := WriteGameParquet(outPath, rows); err != nil {
		return "", err
	}
	if err := r.written.Add(gameID); err != nil {
		return outPath, fmt.Errorf("mark %s written: %w", gameID, err)
	}
	return outPath, nil
}

// Close writes every game still buffered and closes the written log.
func (r *Recorder) Close() error {
	r.mu.Lock()
	ids := make([]string, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		if _, err := r.Finish(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := r.written.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Discard is a Sink that keeps nothing.
type Discard struct{}

func (Discard) Record(TurnRow) error { return nil }

func (Discard) Finish(string) (string, error) { return "", nil }

func (Discard) Close() error { return nil }
