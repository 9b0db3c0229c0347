// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     cmd
// Description: Root command, shared flags and configuration loading
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/triagesys/trec/internal/api"
	"github.com/triagesys/trec/pkg/core/config"
	"github.com/triagesys/trec/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool
	apiURL  string
)

var rootCmd = &cobra.Command{
	Use:   "trec",
	Short: "Triage Voice Recorder",
	Long: `trec records a spoken triage note, sends it to the transcription
service and turns the transcript into a scan schedule.

Without a subcommand trec starts the terminal recorder:

  r           Start recording
  s           Stop recording and transcribe
  o           Optimize the transcript into a schedule
  v / Esc     Show / close the schedule preview
  p           Play back the last recording
  c           Clear the transcript
  q           Quit

The service base URL comes from the configuration (api.base_url), the
TREC_API_URL environment variable or --api-url, in increasing priority.`,
	SilenceUsage: true,
	RunE:         runRecorder,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/trec.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "service base URL (overrides config and "+config.EnvAPIURL+")")
}

// loadConfig loads and validates the configuration with flag overrides applied
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if verbose {
		cfg.General.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging configures the loggers. The recorder UI owns the terminal,
// so its logs go to the log file; headless commands log to stderr.
func setupLogging(cfg *config.Config, toFile bool) error {
	lc := logging.LoggerConfig{
		ServiceName: "trec",
		Level:       cfg.General.LogLevel,
		Format:      cfg.General.LogFormat,
	}
	if toFile {
		lc.FilePath = cfg.General.LogFile
	} else {
		lc.Output = os.Stderr
		if !verbose {
			lc.Level = "warn"
		}
	}
	return logging.Setup(lc)
}

// newClient builds the service client from the configuration
func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(api.Config{
		BaseURL:      cfg.API.BaseURL,
		RecordPath:   cfg.API.RecordPath,
		OptimizePath: cfg.API.OptimizePath,
		UploadField:  cfg.API.UploadField,
		Timeout:      cfg.API.Timeout.Duration,
	})
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
