// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     recorder
// Description: Validation gate for finalized recordings
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package recorder

import (
	trecerr "github.com/triagesys/trec/foundation/core/error"
	"github.com/triagesys/trec/internal/capture"
)

// DefaultMinBytes is the smallest recording accepted for upload
const DefaultMinBytes = 1000

// Gate decides whether a finalized recording may be uploaded
type Gate struct {
	MinBytes int
}

// NewGate creates a gate; a negative minimum falls back to DefaultMinBytes
func NewGate(minBytes int) Gate {
	if minBytes < 0 {
		minBytes = DefaultMinBytes
	}
	return Gate{MinBytes: minBytes}
}

// Check rejects recordings that were not stopped by the user or are
// smaller than MinBytes. reason is the recorder's stop cause, if any.
func (g Gate) Check(audio capture.Audio, manualStop bool, reason error) *trecerr.Error {
	if !manualStop || reason != nil {
		return errUnexpectedStop(reason)
	}
	if audio.Len() < g.MinBytes {
		return errTooShort(audio.Len(), g.MinBytes)
	}
	return nil
}
