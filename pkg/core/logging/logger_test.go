package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logger := New("recorder")

	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.Name() != "recorder" {
		t.Errorf("name = %v, want recorder", logger.Name())
	}
}

func TestLogger_WithLevel(t *testing.T) {
	logger := New("test")
	result := logger.WithLevel(LevelDebug)

	if result == nil {
		t.Fatal("WithLevel should return a logger")
	}
	if result.Name() != "test" {
		t.Errorf("name should be preserved: got %v", result.Name())
	}
}

func TestLogger_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig("api")
	cfg.Format = "text"
	cfg.Output = &buf
	logger := &Logger{Logger: NewLogger(cfg), name: "api"}

	logger.Info("upload done", "status", 200, "bytes", 1500)
	logger.With("session", "s1").Warn("odd", "orphan")

	out := buf.String()
	if !strings.Contains(out, "bytes=1500 status=200") {
		t.Errorf("missing fields: %q", out)
	}
	if !strings.Contains(out, "session=s1") {
		t.Errorf("missing context field: %q", out)
	}
	if strings.Contains(out, "orphan") {
		t.Errorf("orphan key should be dropped: %q", out)
	}
}

func TestSetup_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trec.log")

	cfg := DefaultLoggerConfig("trec")
	cfg.FilePath = path
	cfg.Format = "text"
	if err := Setup(cfg); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	t.Cleanup(func() {
		Close()
		Setup(DefaultLoggerConfig("trec"))
	})

	New("capture").Info("devices enumerated", "count", 2)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "{capture} devices enumerated count=2") {
		t.Errorf("unexpected log file content: %q", data)
	}
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("my-service")

	if cfg.ServiceName != "my-service" {
		t.Errorf("ServiceName = %v, want my-service", cfg.ServiceName)
	}
	if cfg.Level != "info" {
		t.Errorf("Level = %v, want info", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %v, want json", cfg.Format)
	}
}

func TestToFields(t *testing.T) {
	if fields := toFields(); fields != nil {
		t.Error("toFields() with no args should return nil")
	}

	fields := toFields("key1", "value1", "key2", 42)
	if fields["key1"] != "value1" {
		t.Errorf("fields[key1] = %v, want value1", fields["key1"])
	}
	if fields["key2"] != 42 {
		t.Errorf("fields[key2] = %v, want 42", fields["key2"])
	}

	fields = toFields(123, "value")
	if len(fields) != 0 {
		t.Errorf("Non-string key should be skipped, got %v fields", len(fields))
	}

	fields = toFields("error", errors.New("connection refused"), "took", 1500*time.Millisecond)
	if fields["error"] != "connection refused" {
		t.Errorf("fields[error] = %#v, want message string", fields["error"])
	}
	if fields["took"] != "1.5s" {
		t.Errorf("fields[took] = %#v, want 1.5s", fields["took"])
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	cfg := DefaultLoggerConfig("benchmark")
	cfg.Output = &bytes.Buffer{}
	logger := &Logger{Logger: NewLogger(cfg), name: "benchmark"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", "iteration", i)
	}
}
