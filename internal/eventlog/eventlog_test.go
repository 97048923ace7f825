package eventlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/driftwm/driftwm/internal/wm"
)

func TestDisabledLoggerIsInert(t *testing.T) {
	l, err := NewLogger(LogConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	l.Log(wm.NewEvent(wm.EventCreated, 1, nil))
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestLogWritesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	l, err := NewLogger(LogConfig{
		Enabled:   true,
		Level:     LevelInfo,
		FilePath:  path,
		MaxSizeMB: 1,
		MaxFiles:  2,
	})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer l.Close()

	l.Log(wm.NewEvent(wm.EventCreated, 3, nil))
	l.Log(wm.NewEvent(wm.EventStateChanged, 3, wm.StatePayload{Previous: wm.StateNormal}))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "[CREATED] window=3") {
		t.Errorf("missing created entry:\n%s", out)
	}
	if !strings.Contains(out, "previous=normal") {
		t.Errorf("missing state payload detail:\n%s", out)
	}
}

func TestLevelFiltersInputEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	l, err := NewLogger(LogConfig{
		Enabled:   true,
		Level:     LevelInfo,
		FilePath:  path,
		MaxSizeMB: 1,
		MaxFiles:  2,
	})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer l.Close()

	l.Log(wm.NewEvent(wm.EventMouseMove, 1, wm.MousePayload{X: 5, Y: 5}))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("mouse_move logged at info level:\n%s", data)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
		{"mystery", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
