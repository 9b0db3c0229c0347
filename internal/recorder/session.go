// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     recorder
// Description: Recording session
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package recorder

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/triagesys/trec/internal/capture"
)

// Session is one recording attempt
type Session struct {
	ID        string
	StartedAt time.Time
	Buffer    *FragmentBuffer

	stream   capture.Stream
	recorder capture.Recorder
	format   capture.Format

	mu         sync.Mutex
	manualStop bool
	playback   *PlaybackRef

	releaseOnce sync.Once
	releaseErr  error
}

func newSession(stream capture.Stream) *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Buffer:    NewFragmentBuffer(),
		stream:    stream,
	}
}

// Format returns the negotiated recording format
func (s *Session) Format() capture.Format {
	return s.format
}

// MarkManualStop records that the user asked to stop
func (s *Session) MarkManualStop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manualStop = true
}

// ManualStop reports whether the user asked to stop
func (s *Session) ManualStop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manualStop
}

// Playback returns the playback reference, nil before acceptance
func (s *Session) Playback() *PlaybackRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playback
}

func (s *Session) setPlayback(p *PlaybackRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playback = p
}

// ReleaseStream closes the microphone stream. Only the first call has an
// effect.
func (s *Session) ReleaseStream() error {
	s.releaseOnce.Do(func() {
		if s.stream != nil {
			s.releaseErr = s.stream.Close()
		}
	})
	return s.releaseErr
}

// Release frees the stream and the playback reference
func (s *Session) Release() error {
	streamErr := s.ReleaseStream()
	if err := s.Playback().Release(); err != nil {
		return err
	}
	return streamErr
}
