// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     main
// Description: Entry point of the trec command
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package main

import (
	"os"

	"github.com/triagesys/trec/cmd/trec/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
