// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     recorder
// Description: Append-only fragment buffer
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package recorder

import (
	"errors"
	"sync"
)

var (
	// ErrBufferFrozen is returned when appending after Take
	ErrBufferFrozen = errors.New("fragment buffer is frozen")

	// ErrBufferTaken is returned by a second Take
	ErrBufferTaken = errors.New("fragment buffer already consumed")
)

// FragmentBuffer collects encoded fragments in arrival order. It only grows
// until Take freezes it and hands out the concatenation, once.
type FragmentBuffer struct {
	mu        sync.Mutex
	fragments [][]byte
	size      int
	frozen    bool
	taken     bool
}

// NewFragmentBuffer creates an empty buffer
func NewFragmentBuffer() *FragmentBuffer {
	return &FragmentBuffer{}
}

// Append adds a copy of fragment. Empty fragments are ignored.
func (b *FragmentBuffer) Append(fragment []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frozen {
		return ErrBufferFrozen
	}
	if len(fragment) == 0 {
		return nil
	}
	frag := make([]byte, len(fragment))
	copy(frag, fragment)
	b.fragments = append(b.fragments, frag)
	b.size += len(frag)
	return nil
}

// Take freezes the buffer and returns all fragments concatenated in order
func (b *FragmentBuffer) Take() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.frozen = true
	if b.taken {
		return nil, ErrBufferTaken
	}
	b.taken = true

	out := make([]byte, 0, b.size)
	for _, f := range b.fragments {
		out = append(out, f...)
	}
	b.fragments = nil
	return out, nil
}

// Size returns the total number of buffered bytes
func (b *FragmentBuffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Count returns the number of fragments held, zero after Take
func (b *FragmentBuffer) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.fragments)
}

// Frozen reports whether Take was called
func (b *FragmentBuffer) Frozen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frozen
}
