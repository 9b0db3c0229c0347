// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     recorder
// Description: Playback reference for accepted recordings
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package recorder

import (
	"fmt"
	"os"
	"sync"

	"github.com/triagesys/trec/internal/capture"
)

// PlaybackRef is a temp file holding an accepted recording. Release
// deletes it; the path must not be used afterwards.
type PlaybackRef struct {
	path string

	mu       sync.Mutex
	released bool
}

// NewPlaybackRef writes the recording to dir (the system temp dir if empty)
func NewPlaybackRef(dir, sessionID string, audio capture.Audio) (*PlaybackRef, error) {
	f, err := os.CreateTemp(dir, fmt.Sprintf("trec-%s-*.%s", sessionID, audio.Format.Ext))
	if err != nil {
		return nil, fmt.Errorf("failed to create playback file: %w", err)
	}
	if _, err := f.Write(audio.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write playback file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to close playback file: %w", err)
	}
	return &PlaybackRef{path: f.Name()}, nil
}

// Path returns the file path, empty once released
func (p *PlaybackRef) Path() string {
	if p == nil {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ""
	}
	return p.path
}

// Released reports whether Release was called
func (p *PlaybackRef) Released() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}

// Release deletes the file. Safe to call more than once and on nil.
func (p *PlaybackRef) Release() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return nil
	}
	p.released = true
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove playback file: %w", err)
	}
	return nil
}
