// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     logging
// Description: Key/value logging facade over the foundation logger
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package logging

// Level represents log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}
