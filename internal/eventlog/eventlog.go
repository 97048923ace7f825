// Package eventlog writes window events to a rotating log file for
// later inspection. Logging failures never affect window management;
// they are reported to stderr and dropped.
package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/driftwm/driftwm/internal/wm"
)

// LogLevel defines the logging verbosity.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// eventLevel maps event types to log levels. High-frequency input
// events only appear at debug.
func eventLevel(t wm.EventType) LogLevel {
	switch t {
	case wm.EventMouseEnter, wm.EventMouseLeave, wm.EventMouseMove,
		wm.EventMousePress, wm.EventMouseRelease, wm.EventMouseWheel,
		wm.EventKeyPress, wm.EventKeyRelease,
		wm.EventDragBegin, wm.EventDragMove, wm.EventDragEnd:
		return LevelDebug
	default:
		return LevelInfo
	}
}

// LogConfig holds configuration for the event logger.
type LogConfig struct {
	Enabled   bool
	Level     LogLevel
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// Logger handles window event logging with file rotation.
type Logger struct {
	mu          sync.Mutex
	file        *os.File
	config      LogConfig
	currentSize int64
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg LogConfig) (*Logger, error) {
	if !cfg.Enabled {
		return &Logger{config: cfg}, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &Logger{
		file:        f,
		config:      cfg,
		currentSize: stat.Size(),
	}, nil
}

// Log records a window event to the log file.
func (l *Logger) Log(ev wm.Event) {
	if l == nil || !l.config.Enabled {
		return
	}
	if eventLevel(ev.Type) < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	maxBytes := int64(l.config.MaxSizeMB) * 1024 * 1024
	if l.currentSize >= maxBytes {
		if err := l.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
		if l.file == nil {
			return
		}
	}

	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(strings.ToUpper(string(ev.Type)))
	sb.WriteString("]")
	fmt.Fprintf(&sb, " window=%d seq=%d", ev.Window, ev.Timestamp)

	switch p := ev.Payload.(type) {
	case wm.GeometryPayload:
		fmt.Fprintf(&sb, " from=%d,%d+%dx%d to=%d,%d+%dx%d",
			p.Old.X, p.Old.Y, p.Old.Width, p.Old.Height,
			p.New.X, p.New.Y, p.New.Width, p.New.Height)
	case wm.StatePayload:
		fmt.Fprintf(&sb, " previous=%s", p.Previous)
	case wm.MousePayload:
		fmt.Fprintf(&sb, " at=%d,%d button=%d", p.X, p.Y, p.Button)
	case wm.KeyPayload:
		fmt.Fprintf(&sb, " key=%d", p.KeyCode)
	case wm.DragPayload:
		fmt.Fprintf(&sb, " at=%d,%d", p.X, p.Y)
	}
	sb.WriteString("\n")

	n, err := l.file.WriteString(sb.String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write log entry: %v\n", err)
		return
	}
	l.currentSize += int64(n)
}

// Close closes the logger and releases resources.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.file.Close()
	l.file = nil
	return err
}

// rotate performs log file rotation.
// events.log -> events.log.1, events.log.1 -> events.log.2, and the
// oldest rotated file is deleted.
func (l *Logger) rotate() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	basePath := l.config.FilePath
	for i := l.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		newPath := fmt.Sprintf("%s.%d", basePath, i+1)
		if i == l.config.MaxFiles {
			os.Remove(oldPath)
		} else {
			os.Rename(oldPath, newPath)
		}
	}

	if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}

	l.file = f
	l.currentSize = 0
	return nil
}

// ParseLogLevel converts a string to LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
