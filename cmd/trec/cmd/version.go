// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     cmd
// Description: Prints build and version information
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/triagesys/trec/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "trec v%s\n", version.Client)
		fmt.Fprintf(out, "  API Version: %s\n", version.API)
		fmt.Fprintf(out, "  Git Commit:  %s\n", version.Commit)
		fmt.Fprintf(out, "  Build Date:  %s\n", version.BuildDate)
		fmt.Fprintf(out, "  Go Version:  %s\n", runtime.Version())
		fmt.Fprintf(out, "  OS/Arch:     %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
