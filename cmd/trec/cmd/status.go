// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     cmd
// Description: Preflight checks before recording
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/triagesys/trec/internal/capture"
	"github.com/triagesys/trec/pkg/core/config"
	"github.com/triagesys/trec/pkg/core/health"
	"github.com/triagesys/trec/pkg/core/version"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check service, encoder and microphone",
	Long: `Runs preflight checks:

  service     the transcription service answers at the base URL
  encoder     ffmpeg is available for ogg/opus and webm recordings
              (without it recordings fall back to wav)
  microphone  at least one input device is present`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the report as JSON")
}

// newPreflight registers the checks run by the status command
func newPreflight(cfg *config.Config, listDevices func() ([]capture.DeviceInfo, error)) *health.Registry {
	r := health.NewRegistry("trec", version.Client)
	r.Register(health.HTTPCheck("service", cfg.API.BaseURL, cfg.API.Timeout.Duration))
	r.Register(health.CommandCheck("encoder", cfg.Capture.FFmpegPath, false))
	r.RegisterFunc("microphone", func(ctx context.Context) health.CheckResult {
		devices, err := listDevices()
		switch {
		case err != nil:
			return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
		case len(devices) == 0:
			return health.CheckResult{Status: health.StatusUnhealthy, Message: "no input devices"}
		}
		return health.CheckResult{
			Status:  health.StatusHealthy,
			Message: fmt.Sprintf("%d input device(s)", len(devices)),
			Details: map[string]interface{}{"devices": len(devices)},
		}
	})
	return r
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg, false); err != nil {
		return err
	}

	report := newPreflight(cfg, capture.ListInputDevices).CheckWithTimeout(cfg.API.Timeout.Duration)

	out := cmd.OutOrStdout()
	if statusJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, report.Summary())
	}

	if report.Status == health.StatusUnhealthy {
		return fmt.Errorf("preflight failed")
	}
	return nil
}
