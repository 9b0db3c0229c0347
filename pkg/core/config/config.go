// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     config
// Description: TOML configuration with defaults and base-URL override
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	trecerr "github.com/triagesys/trec/foundation/core/error"
)

// EnvAPIURL overrides api.base_url when set
const EnvAPIURL = "TREC_API_URL"

// Config holds the complete application configuration
type Config struct {
	General    GeneralConfig    `toml:"general"`
	API        APIConfig        `toml:"api"`
	Capture    CaptureConfig    `toml:"capture"`
	Validation ValidationConfig `toml:"validation"`
	UI         UIConfig         `toml:"ui"`

	// path the configuration was loaded from, empty for defaults
	source string
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogFile   string `toml:"log_file"`
}

// APIConfig describes the transcription and optimization endpoints
type APIConfig struct {
	BaseURL      string   `toml:"base_url"`
	RecordPath   string   `toml:"record_path"`
	OptimizePath string   `toml:"optimize_path"`
	UploadField  string   `toml:"upload_field"`
	Timeout      Duration `toml:"timeout"`
}

// CaptureConfig holds microphone and encoder settings
type CaptureConfig struct {
	Device          string   `toml:"device"`
	SampleRate      int      `toml:"sample_rate"`
	Channels        int      `toml:"channels"`
	FramesPerBuffer int      `toml:"frames_per_buffer"`
	Formats         []string `toml:"formats"`
	FFmpegPath      string   `toml:"ffmpeg_path"`
	MaxDuration     Duration `toml:"max_duration"`
	TempDir         string   `toml:"temp_dir"`
}

// ValidationConfig holds the recording acceptance rules
type ValidationConfig struct {
	// MinBytes rejects recordings smaller than this many encoded bytes
	MinBytes int `toml:"min_bytes"`
}

// UIConfig holds terminal UI settings
type UIConfig struct {
	AltScreen bool `toml:"alt_screen"`
	ShowHelp  bool `toml:"show_help"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := newConfig()
	cfg.applyDefaults()
	return cfg
}

// newConfig returns the values an absent key keeps. Keys whose zero value
// is meaningful are preset here instead of in applyDefaults.
func newConfig() *Config {
	return &Config{
		UI:         UIConfig{AltScreen: true, ShowHelp: true},
		Validation: ValidationConfig{MinBytes: 1000},
	}
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, trecerr.New("config file not found: " + path).
			WithCode(trecerr.CodeConfigError)
	}

	cfg := newConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, trecerr.Wrap(err, "failed to parse config").
			WithCode(trecerr.CodeInvalidConfig).
			WithDetail("path", path)
	}

	cfg.source = path
	cfg.applyDefaults()
	cfg.expandEnvVars()
	cfg.applyEnvOverrides()

	return cfg, nil
}

// DefaultPaths returns the locations searched when no path is given
func DefaultPaths() []string {
	paths := []string{
		"./configs/trec.toml",
		"./trec.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "trec", "trec.toml"))
	}
	return paths
}

// LoadOrDefault loads path when given, otherwise the first existing default
// location, otherwise the built-in defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	cfg := Default()
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Source returns the file the configuration was loaded from
func (c *Config) Source() string {
	return c.source
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "json"
	}
	if c.General.LogFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.General.LogFile = filepath.Join(home, ".config", "trec", "trec.log")
		} else {
			c.General.LogFile = "trec.log"
		}
	}

	// API
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8000"
	}
	if c.API.RecordPath == "" {
		c.API.RecordPath = "/record"
	}
	if c.API.OptimizePath == "" {
		c.API.OptimizePath = "/optimize"
	}
	if c.API.UploadField == "" {
		c.API.UploadField = "file"
	}
	if c.API.Timeout.Duration == 0 {
		c.API.Timeout.Duration = 60 * time.Second
	}

	// Capture
	if c.Capture.Device == "" {
		c.Capture.Device = "default"
	}
	if c.Capture.SampleRate == 0 {
		c.Capture.SampleRate = 48000
	}
	if c.Capture.Channels == 0 {
		c.Capture.Channels = 1
	}
	if c.Capture.FramesPerBuffer == 0 {
		c.Capture.FramesPerBuffer = 1024
	}
	if len(c.Capture.Formats) == 0 {
		c.Capture.Formats = []string{"audio/ogg; codecs=opus", "audio/webm", "audio/wav"}
	}
	if c.Capture.FFmpegPath == "" {
		c.Capture.FFmpegPath = "ffmpeg"
	}
	if c.Capture.MaxDuration.Duration == 0 {
		c.Capture.MaxDuration.Duration = 10 * time.Minute
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.LogFile = os.ExpandEnv(c.General.LogFile)
	c.Capture.TempDir = os.ExpandEnv(c.Capture.TempDir)
	c.Capture.FFmpegPath = os.ExpandEnv(c.Capture.FFmpegPath)
}

// applyEnvOverrides applies TREC_API_URL
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.API.BaseURL = v
	}
}

// Validate checks the configuration for values the client cannot work with
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("api.base_url", c.API.BaseURL, "must be an absolute http(s) URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid("api.base_url", c.API.BaseURL, "scheme must be http or https")
	}
	if c.API.Timeout.Duration < 0 {
		return invalid("api.timeout", c.API.Timeout.String(), "must not be negative")
	}
	if c.Validation.MinBytes < 0 {
		return invalid("validation.min_bytes", fmt.Sprint(c.Validation.MinBytes), "must not be negative")
	}
	if c.Capture.SampleRate <= 0 || c.Capture.Channels <= 0 || c.Capture.FramesPerBuffer <= 0 {
		return invalid("capture", fmt.Sprintf("%d/%d/%d", c.Capture.SampleRate, c.Capture.Channels, c.Capture.FramesPerBuffer),
			"sample_rate, channels and frames_per_buffer must be positive")
	}
	return nil
}

func invalid(key, value, reason string) error {
	return trecerr.New(fmt.Sprintf("invalid %s %q: %s", key, value, reason)).
		WithCode(trecerr.CodeInvalidConfig).
		WithDetail("key", key)
}
