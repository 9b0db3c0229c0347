// File: logger_test.go
// Title: Logger Tests
// Description: Tests for level filtering, fields, formats and error logging.
// Version: v0.2.0
// Created: 2026-10-15

package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	trecerr "github.com/triagesys/trec/foundation/core/error"
)

func newBufferLogger(format Format, level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{
		Level:  level,
		Format: format,
		Output: &buf,
		Name:   "test",
	}), &buf
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(FormatText, LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below level were written: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestLogger_JSONFields(t *testing.T) {
	logger, buf := newBufferLogger(FormatJSON, LevelDebug)

	logger.WithField("session", "abc").Info("capture started", Fields{"bytes": 42})

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if decoded["message"] != "capture started" {
		t.Errorf("message = %v", decoded["message"])
	}
	if decoded["logger"] != "test" {
		t.Errorf("logger = %v", decoded["logger"])
	}
	if decoded["session"] != "abc" {
		t.Errorf("session = %v", decoded["session"])
	}
	if decoded["bytes"] != float64(42) {
		t.Errorf("bytes = %v", decoded["bytes"])
	}
}

func TestLogger_TextSortedFields(t *testing.T) {
	logger, buf := newBufferLogger(FormatText, LevelInfo)

	logger.Info("upload", Fields{"status": 500, "endpoint": "/record", "note": "two words"})

	out := buf.String()
	if !strings.Contains(out, `endpoint=/record note="two words" status=500`) {
		t.Errorf("unexpected text output: %q", out)
	}
	if !strings.Contains(out, "INF {test} upload") {
		t.Errorf("missing level/name prefix: %q", out)
	}
}

func TestLogger_ErrorWithCodedError(t *testing.T) {
	logger, buf := newBufferLogger(FormatJSON, LevelInfo)

	err := trecerr.New("status 500").WithCode(trecerr.CodeHTTPError)
	logger.ErrorWithErr("upload failed", err)

	var decoded map[string]interface{}
	if jErr := json.Unmarshal(buf.Bytes(), &decoded); jErr != nil {
		t.Fatalf("invalid JSON: %v", jErr)
	}
	details, ok := decoded["error_details"].(map[string]interface{})
	if !ok {
		t.Fatalf("error_details missing: %v", decoded)
	}
	if details["code"] != "HTTP_ERROR" {
		t.Errorf("code = %v", details["code"])
	}
}

func TestLogger_ClonesAreIndependent(t *testing.T) {
	logger, _ := newBufferLogger(FormatJSON, LevelInfo)
	debug := logger.WithLevel(LevelDebug)

	if logger.GetLevel() != LevelInfo {
		t.Errorf("original level changed to %v", logger.GetLevel())
	}
	if !debug.IsLevelEnabled(LevelDebug) {
		t.Error("clone should enable debug")
	}
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	logger, buf := newBufferLogger(FormatJSON, LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.WithField("n", n).Info("fragment")
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want 20", len(lines))
	}
	for _, line := range lines {
		if !json.Valid([]byte(line)) {
			t.Errorf("interleaved line: %q", line)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"WARNING", LevelWarn, false},
		{"", LevelInfo, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("text"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(text) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}
