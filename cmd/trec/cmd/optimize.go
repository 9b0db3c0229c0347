// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     cmd
// Description: Optimizes a transcript into a schedule
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/triagesys/trec/internal/api"
)

var optimizeJSON bool

var optimizeCmd = &cobra.Command{
	Use:   "optimize [transcript...]",
	Short: "Optimize a transcript into a schedule",
	Long: `Submits a transcript to the optimizer and prints the schedule.

The transcript is taken from the arguments, or from stdin when the only
argument is "-".`,
	RunE: runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().BoolVar(&optimizeJSON, "json", false, "print the schedule as JSON")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg, false); err != nil {
		return err
	}

	transcript := strings.Join(args, " ")
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read transcript: %w", err)
		}
		transcript = string(data)
	}
	transcript = strings.TrimSpace(transcript)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	schedule, err := newClient(cfg).Optimize(ctx, transcript)
	if err != nil {
		if errors.Is(err, api.ErrEmptyTranscript) {
			return errors.New("No transcription found!")
		}
		return fmt.Errorf("Optimization failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if optimizeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(api.OptimizeResponse{Schedule: schedule})
	}
	fmt.Fprintln(out, renderSchedule(schedule))
	return nil
}

// renderSchedule renders a schedule as a bordered table
func renderSchedule(schedule api.Schedule) string {
	if len(schedule) == 0 {
		return "Empty schedule."
	}

	rows := make([][]string, 0, len(schedule))
	for _, r := range schedule {
		rows = append(rows, r.Values())
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(api.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}
