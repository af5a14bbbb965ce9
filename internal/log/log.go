// Package log provides structured logging for lineconsole.
// A Logger is injected into the console components; the package-level
// functions write through a process-wide default that the CLI initializes
// from --debug or LINECONSOLE_DEBUG.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/zjrosen/lineconsole/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages.
type Category string

const (
	CatInput    Category = "input"    // Raw key events and normalization
	CatCursor   Category = "cursor"   // Buffer and cursor mutation
	CatDispatch Category = "dispatch" // Command parsing, lookup and completion
	CatEvents   Category = "events"   // Event bus emission
	CatConfig   Category = "config"   // Configuration loading/saving
	CatWatcher  Category = "watcher"  // Config file watcher events
	CatUI       Category = "ui"       // Surface updates
	CatBuiltin  Category = "builtin"  // Builtin command handlers
	CatTrace    Category = "trace"    // Tracing provider lifecycle
)

// Logger provides structured logging.
// A nil *Logger is valid and discards everything.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	writer   io.Writer
	enabled  bool
	minLevel Level
	now      func() time.Time
	broker   *pubsub.Broker[string]
}

// New creates a logger writing to w at debug level.
func New(w io.Writer) *Logger {
	return &Logger{
		writer:   w,
		enabled:  true,
		minLevel: LevelDebug,
		now:      time.Now,
		broker:   pubsub.NewBroker[string](),
	}
}

// Discard returns a logger that drops every entry.
func Discard() *Logger {
	l := New(io.Discard)
	l.enabled = false
	return l
}

// Open creates a logger appending to the file at path.
// The returned cleanup closes the file.
func Open(path string) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: user-controlled debug log path
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	l := New(f)
	l.file = f
	return l, func() { _ = f.Close() }, nil
}

// SetEnabled toggles logging on/off.
func (l *Logger) SetEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.enabled = enabled
	l.mu.Unlock()
}

// SetMinLevel sets the minimum log level.
func (l *Logger) SetMinLevel(level Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.minLevel = level
	l.mu.Unlock()
}

// Debug logs at debug level.
func (l *Logger) Debug(cat Category, msg string, fields ...any) {
	l.log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func (l *Logger) Info(cat Category, msg string, fields ...any) {
	l.log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func (l *Logger) Warn(cat Category, msg string, fields ...any) {
	l.log(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func (l *Logger) Error(cat Category, msg string, fields ...any) {
	l.log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func (l *Logger) ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	l.log(LevelError, cat, msg, fields...)
}

func (l *Logger) log(level Level, cat Category, msg string, fields ...any) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel {
		return
	}

	// Format: 2025-12-06T10:45:00 [ERROR] [dispatch] message key=value key2=value2
	entry := format(l.now(), level, cat, msg, fields...)

	if l.writer != nil {
		_, _ = l.writer.Write([]byte(entry))
	}

	// Publish to subscribers (non-blocking)
	if l.broker != nil {
		l.broker.Publish(pubsub.CreatedEvent, entry)
	}
}

func format(ts time.Time, level Level, cat Category, msg string, fields ...any) string {
	entry := fmt.Sprintf("%s [%s] [%s] %s", ts.Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		entry += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	// Orphan key with no value
	if len(fields)%2 != 0 {
		entry += fmt.Sprintf(" %v=<missing>", fields[len(fields)-1])
	}
	return entry + "\n"
}

// LogEvent is a pubsub event containing a log entry.
type LogEvent = pubsub.Event[string]

// LogListener wraps a continuous listener for log events.
type LogListener = pubsub.ContinuousListener[string]

// NewListener creates a listener for this logger's entries.
// The listener is cleaned up when ctx is cancelled.
func (l *Logger) NewListener(ctx context.Context) *LogListener {
	if l == nil || l.broker == nil {
		return nil
	}
	return pubsub.NewContinuousListener(ctx, l.broker)
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// Init points the package default logger at a file.
// Returns a cleanup function to close the log file.
func Init(path string) (func(), error) {
	l, cleanup, err := Open(path)
	if err != nil {
		return nil, err
	}
	SetDefault(l)
	return cleanup, nil
}

// SetDefault replaces the package default logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the package default logger, which may be nil.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Debug logs at debug level on the default logger.
func Debug(cat Category, msg string, fields ...any) {
	Default().Debug(cat, msg, fields...)
}

// Info logs at info level on the default logger.
func Info(cat Category, msg string, fields ...any) {
	Default().Info(cat, msg, fields...)
}

// Warn logs at warning level on the default logger.
func Warn(cat Category, msg string, fields ...any) {
	Default().Warn(cat, msg, fields...)
}

// Error logs at error level on the default logger.
func Error(cat Category, msg string, fields ...any) {
	Default().Error(cat, msg, fields...)
}

// ErrorErr logs an error value on the default logger.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	Default().ErrorErr(cat, msg, err, fields...)
}
