// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     logging
// Description: Factory functions for loggers, with optional file output
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	treclog "github.com/triagesys/trec/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service or component name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: "json" or "text"
	Format string

	// FilePath redirects output to a file. Required while the TUI owns the
	// terminal.
	FilePath string

	// Output overrides stdout when FilePath is empty
	Output io.Writer

	// Additional outputs besides the primary one
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "json",
	}
}

var (
	defaultsMu sync.RWMutex
	defaults   = DefaultLoggerConfig("trec")
	logFile    *os.File
)

// Setup configures the defaults used by New. When cfg.FilePath is set the
// file is opened in append mode and stays open until Close.
func Setup(cfg LoggerConfig) error {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()

	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		if logFile != nil {
			logFile.Close()
		}
		logFile = f
		cfg.Output = f
	}

	defaults = cfg
	treclog.SetDefault(NewLogger(cfg))
	return nil
}

// Close closes the log file opened by Setup, if any
func Close() error {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	defaults.Output = nil
	defaults.FilePath = ""
	return err
}

// NewLogger creates a new foundation logger
func NewLogger(cfg LoggerConfig) *treclog.Logger {
	level, _ := treclog.ParseLevel(cfg.Level)
	format, _ := treclog.ParseFormat(cfg.Format)

	var output io.Writer = os.Stdout
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return treclog.NewWithConfig(treclog.Config{
		Level:        level,
		Format:       format,
		Output:       output,
		Name:         cfg.ServiceName,
		EnableCaller: level <= treclog.LevelDebug,
	})
}

// Logger wraps the foundation logger with a key/value call style
type Logger struct {
	*treclog.Logger
	name string
}

// New creates a named logger using the defaults set by Setup
func New(name string) *Logger {
	defaultsMu.RLock()
	cfg := defaults
	defaultsMu.RUnlock()

	cfg.ServiceName = name
	return &Logger{
		Logger: NewLogger(cfg),
		name:   name,
	}
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// WithLevel returns a new logger with the specified level
func (l *Logger) WithLevel(level Level) *Logger {
	mapped := treclog.LevelInfo
	switch level {
	case LevelDebug:
		mapped = treclog.LevelDebug
	case LevelWarn:
		mapped = treclog.LevelWarn
	case LevelError:
		mapped = treclog.LevelError
	}
	return &Logger{Logger: l.Logger.WithLevel(mapped), name: l.name}
}

// With returns a logger that adds the key/value pairs to every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{Logger: l.Logger.WithFields(toFields(keysAndValues...)), name: l.name}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to log fields. Non-string keys and a
// trailing key without value are dropped. Plain errors and durations are
// stored as strings so both formatters render them readably.
func toFields(keysAndValues ...interface{}) treclog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(treclog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		switch v := keysAndValues[i+1].(type) {
		case json.Marshaler:
			fields[key] = v
		case error:
			fields[key] = v.Error()
		case time.Duration:
			fields[key] = v.String()
		default:
			fields[key] = v
		}
	}
	return fields
}
