// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     api
// Description: Client error types
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package api

import (
	"errors"
	"fmt"
)

// ErrEmptyTranscript is returned by Optimize for an empty transcript
var ErrEmptyTranscript = errors.New("no transcription found")

// HTTPError is a non-2xx reply
type HTTPError struct {
	Status int
	// first bytes of the reply body, for logs
	Body string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: status %d", e.Status)
}

// NetworkError is a transport failure or timeout. No reply was received.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran out of time
func (e *NetworkError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// ReplyError is a 2xx reply whose body could not be decoded
type ReplyError struct {
	Err error
}

func (e *ReplyError) Error() string {
	return "invalid reply: " + e.Err.Error()
}

func (e *ReplyError) Unwrap() error {
	return e.Err
}
