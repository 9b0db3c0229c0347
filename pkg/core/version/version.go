// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     version
// Description: Central version information
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Client version
	Client = "0.3.0"

	// API is the version of the /record and /optimize contract the client speaks
	API = "1"
)

// Build metadata, overridden at link time with -ldflags "-X ..."
var (
	Commit    = "dev"
	BuildDate = ""
)

// UserAgent returns the User-Agent header sent with every request
func UserAgent() string {
	return fmt.Sprintf("trec/%s (%s/%s)", Client, runtime.GOOS, runtime.GOARCH)
}

// String returns a one-line version description
func String() string {
	s := fmt.Sprintf("trec %s (api v%s, commit %s", Client, API, Commit)
	if BuildDate != "" {
		s += ", built " + BuildDate
	}
	return s + ", " + runtime.Version() + ")"
}
