package recorder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/triagesys/trec/internal/capture"
)

func TestPlaybackRef(t *testing.T) {
	dir := t.TempDir()
	audio := capture.Audio{Data: []byte("OggS-payload"), Format: capture.FormatOggOpus}

	ref, err := NewPlaybackRef(dir, "sess-1", audio)
	if err != nil {
		t.Fatalf("NewPlaybackRef() error = %v", err)
	}

	path := ref.Path()
	if filepath.Dir(path) != dir || !strings.HasSuffix(path, ".ogg") || !strings.Contains(path, "sess-1") {
		t.Errorf("Path() = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "OggS-payload" {
		t.Fatalf("file = %q, %v", data, err)
	}

	if err := ref.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := ref.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
	if !ref.Released() || ref.Path() != "" {
		t.Error("reference still usable after Release")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists: %v", err)
	}
}

func TestPlaybackRef_Nil(t *testing.T) {
	var ref *PlaybackRef
	if ref.Path() != "" {
		t.Error("nil Path() should be empty")
	}
	if err := ref.Release(); err != nil {
		t.Errorf("nil Release() = %v", err)
	}
}
