// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     cmd
// Description: Starts the terminal recorder
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/triagesys/trec/internal/capture"
	"github.com/triagesys/trec/internal/recorder"
	"github.com/triagesys/trec/internal/tui"
	"github.com/triagesys/trec/pkg/core/logging"
	"github.com/triagesys/trec/pkg/core/version"
)

func runRecorder(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("configuration", err)
		return err
	}
	if err := setupLogging(cfg, true); err != nil {
		printError("logging", err)
		return err
	}
	defer logging.Close()

	logger := logging.New("trec")
	logger.Info("Starting recorder",
		"version", version.String(),
		"config", cfg.Source(),
		"api", cfg.API.BaseURL,
	)
	capture.LogInputDevices(capture.ListInputDevices, logging.New("capture"))

	ctrl := recorder.NewController(recorder.Options{
		Microphone: capture.NewPortAudioMicrophone(capture.MicrophoneConfig{
			Device:          cfg.Capture.Device,
			SampleRate:      cfg.Capture.SampleRate,
			Channels:        cfg.Capture.Channels,
			FramesPerBuffer: cfg.Capture.FramesPerBuffer,
		}),
		Recorders: capture.NewMediaRecorderFactory(capture.RecorderConfig{
			Preferences: cfg.Capture.Formats,
			FFmpegPath:  cfg.Capture.FFmpegPath,
			TempDir:     cfg.Capture.TempDir,
			MaxDuration: cfg.Capture.MaxDuration.Duration,
		}),
		Service:     newClient(cfg),
		MinBytes:    cfg.Validation.MinBytes,
		PlaybackDir: cfg.Capture.TempDir,
	})
	defer func() {
		if err := ctrl.Close(); err != nil {
			logger.Warn("Failed to release session", "error", err)
		}
	}()

	err = tui.Run(tui.Config{
		Controller: ctrl,
		Player:     capture.NewPlayer(cfg.Capture.FFmpegPath),
		Endpoint:   cfg.API.BaseURL,
		AltScreen:  cfg.UI.AltScreen,
		ShowHelp:   cfg.UI.ShowHelp,
	})
	if err != nil {
		logger.Error("Recorder UI failed", "error", err)
		printError("recorder", err)
		return err
	}

	logger.Info("Recorder stopped")
	return nil
}
