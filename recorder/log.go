package recorder

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// WrittenLog is an append-only list of game IDs whose parquet file has
// already been written, one ID per line. It survives restarts so a game that
// gets a duplicate /end is not written twice. A torn final line is ignored on
// the next open.
type WrittenLog struct {
	mu      sync.RWMutex
	file    *os.File
	written map[string]struct{}
}

func OpenWrittenLog(path string) (*WrittenLog, error) {
	if path == "" {
		return nil, fmt.Errorf("log path is required")
	}

	written := make(map[string]struct{})
	if f, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if id := strings.TrimSpace(scanner.Text()); id != "" {
				written[id] = struct{}{}
			}
		}
		_ = f.Close()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &WrittenLog{file: file, written: written}, nil
}

func (l *WrittenLog) Has(gameID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.written[gameID]
	return ok
}

func (l *WrittenLog) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.written)
}

// Add appends gameID and fsyncs. Known IDs are a no-op.
func (l *WrittenLog) Add(gameID string) error {
	if gameID == "" {
		return fmt.Errorf("gameID is empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.written[gameID]; ok {
		return nil
	}
	if l.file == nil {
		return fmt.Errorf("log file is closed")
	}
	if _, err := l.file.WriteString(gameID + "\n"); err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync log: %w", err)
	}
	l.written[gameID] = struct{}{}
	return nil
}

func (l *WrittenLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
