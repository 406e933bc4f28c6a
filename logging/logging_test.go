package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyJSONHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.With("game", "g1").WithGroup("decision").Debug("move", "move", "up", "turn", 3, "err", errors.New("boom"))

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got["msg"] != "move" || got["level"] != "DEBUG" {
		t.Fatalf("unexpected header fields: %v", got)
	}
	if got["game"] != "g1" {
		t.Fatalf("game attr missing: %v", got)
	}
	decision, ok := got["decision"].(map[string]any)
	if !ok {
		t.Fatalf("decision group missing: %v", got)
	}
	if decision["move"] != "up" || decision["turn"] != float64(3) || decision["err"] != "boom" {
		t.Fatalf("decision group=%v", decision)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Fatalf("output should be indented:\n%s", buf.String())
	}
}

func TestPrettyJSONHandler_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn: %s", buf.String())
	}
}

func TestNewAndParseLevel(t *testing.T) {
	for _, in := range []string{"debug", "INFO", "warn", "error", ""} {
		if _, err := ParseLevel(in); err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("ParseLevel(loud) should fail")
	}

	for _, f := range []string{FormatText, FormatJSON, FormatPretty} {
		var buf bytes.Buffer
		logger, err := New(&buf, f, slog.LevelInfo)
		if err != nil {
			t.Fatalf("New(%s): %v", f, err)
		}
		logger.Info("hello", "k", "v")
		if !strings.Contains(buf.String(), "hello") {
			t.Fatalf("%s output missing message: %q", f, buf.String())
		}
	}
	if _, err := New(&bytes.Buffer{}, "xml", slog.LevelInfo); err == nil {
		t.Fatalf("unknown format should fail")
	}
}
