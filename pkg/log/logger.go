package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name (case-insensitive).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Field is one structured key/value pair.
type Field struct {
	Key   string
	Value any
}

// Str builds a string field.
func Str(key, value string) Field { return Field{Key: key, Value: value} }

// Int builds an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Uint64 builds a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Err builds an error field.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Component tags logs with a component name.
func Component(name string) Field { return Field{Key: "component", Value: name} }

// Logger is the logging facade used across the engine.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger carrying the extra fields.
	With(fields ...Field) Logger

	// SetLevel sets the minimum log level.
	SetLevel(level Level)
}

// BaseLogger implements Logger over slog.
type BaseLogger struct {
	mu    sync.Mutex
	level *slog.LevelVar
	inner *slog.Logger
}

// LoggerOption configures a logger under construction.
type LoggerOption func(*loggerConfig)

type loggerConfig struct {
	level  Level
	json   bool
	writer io.Writer
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(c *loggerConfig) { c.level = level }
}

// WithJSONFormat switches output to one JSON object per line.
func WithJSONFormat() LoggerOption {
	return func(c *loggerConfig) { c.json = true }
}

// WithWriter redirects output (default stderr).
func WithWriter(w io.Writer) LoggerOption {
	return func(c *loggerConfig) { c.writer = w }
}

// NewLogger creates a logger with the given options.
func NewLogger(options ...LoggerOption) Logger {
	cfg := loggerConfig{level: InfoLevel, writer: os.Stderr}
	for _, option := range options {
		option(&cfg)
	}

	lv := &slog.LevelVar{}
	lv.Set(toSlogLevel(cfg.level))
	opts := &slog.HandlerOptions{Level: lv}
	var handler slog.Handler
	if cfg.json {
		handler = slog.NewJSONHandler(cfg.writer, opts)
	} else {
		handler = slog.NewTextHandler(cfg.writer, opts)
	}
	return &BaseLogger{level: lv, inner: slog.New(handler)}
}

// NewNop returns a logger that discards everything. Used as the default when
// callers do not inject one.
func NewNop() Logger {
	return &BaseLogger{level: &slog.LevelVar{}, inner: slog.New(discardHandler{})}
}

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.inner.Debug(msg, args(fields)...) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.inner.Info(msg, args(fields)...) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.inner.Warn(msg, args(fields)...) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.inner.Error(msg, args(fields)...) }

// With returns a child logger carrying the extra fields.
func (l *BaseLogger) With(fields ...Field) Logger {
	return &BaseLogger{level: l.level, inner: l.inner.With(args(fields)...)}
}

// SetLevel sets the minimum log level.
func (l *BaseLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level.Set(toSlogLevel(level))
}

func toSlogLevel(level Level) slog.Level {
	switch level {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func args(fields []Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, slog.Any(f.Key, f.Value))
	}
	return out
}
