// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     cmd
// Description: Uploads an existing recording for transcription
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/triagesys/trec/internal/capture"
)

var transcribeOptimize bool

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file>",
	Short: "Transcribe an audio file",
	Long: `Uploads an existing recording (.ogg, .webm or .wav) to the
transcription service and prints the transcript.

With --optimize the transcript is submitted to the optimizer and the
resulting schedule is printed as a table.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().BoolVar(&transcribeOptimize, "optimize", false,
		"also optimize the transcript into a schedule")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg, false); err != nil {
		return err
	}

	path := args[0]
	format, err := capture.FormatFromFilename(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read recording: %w", err)
	}

	client := newClient(cfg)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	transcript, err := client.Transcribe(ctx, capture.Audio{Data: data, Format: format})
	if err != nil {
		return fmt.Errorf("Error uploading audio: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, transcript)

	if !transcribeOptimize {
		return nil
	}

	schedule, err := client.Optimize(ctx, transcript)
	if err != nil {
		return fmt.Errorf("Optimization failed: %w", err)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSchedule(schedule))
	return nil
}
