// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     tui
// Description: Message types for async operations in the recorder UI
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package tui

import (
	"time"

	"github.com/triagesys/trec/internal/recorder"
)

// snapshotMsg carries controller state into the update loop
type snapshotMsg recorder.Snapshot

// actionDoneMsg is sent when a controller call made from a command returns.
// The outcome itself reaches the model as a snapshot.
type actionDoneMsg struct {
	action string
	err    error
}

// playbackDoneMsg is sent when playback of the recording has finished
type playbackDoneMsg struct {
	err error
}

// tickMsg refreshes the elapsed recording time
type tickMsg time.Time
