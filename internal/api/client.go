// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     api
// Description: HTTP client for the /record and /optimize endpoints
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/triagesys/trec/internal/capture"
	"github.com/triagesys/trec/pkg/core/logging"
	"github.com/triagesys/trec/pkg/core/version"
)

// maxErrorBody limits how much of a failed reply is kept
const maxErrorBody = 512

// Config holds client configuration
type Config struct {
	// BaseURL is the service root, e.g. "http://localhost:8000"
	BaseURL      string
	RecordPath   string
	OptimizePath string
	// UploadField is the multipart field carrying the recording
	UploadField string
	Timeout     time.Duration

	// HTTPClient overrides the default client; its Timeout is left alone
	HTTPClient *http.Client
}

// DefaultConfig returns default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:      "http://localhost:8000",
		RecordPath:   "/record",
		OptimizePath: "/optimize",
		UploadField:  "file",
		Timeout:      60 * time.Second,
	}
}

// Client talks to the transcription and optimization endpoints. Requests
// are sent once; there is no retry.
type Client struct {
	baseURL      string
	recordPath   string
	optimizePath string
	uploadField  string
	httpClient   *http.Client
	logger       *logging.Logger
}

// NewClient creates a new client
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.RecordPath == "" {
		cfg.RecordPath = def.RecordPath
	}
	if cfg.OptimizePath == "" {
		cfg.OptimizePath = def.OptimizePath
	}
	if cfg.UploadField == "" {
		cfg.UploadField = def.UploadField
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		recordPath:   cfg.RecordPath,
		optimizePath: cfg.OptimizePath,
		uploadField:  cfg.UploadField,
		httpClient:   httpClient,
		logger:       logging.New("api"),
	}
}

// BaseURL returns the service root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Transcribe uploads a finalized recording and returns the transcript
func (c *Client) Transcribe(ctx context.Context, audio capture.Audio) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, c.uploadField, audio.Format.Filename()))
	header.Set("Content-Type", audio.Format.MIMEType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio.Data); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	url := c.baseURL + c.recordPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Debug("Sending transcription request", "url", url, "size", audio.Len(), "format", audio.Format.MIMEType)

	var result TranscribeResponse
	if err := c.do(req, "record", &result); err != nil {
		return "", err
	}

	c.logger.Info("Transcription received", "chars", len(result.Transcription))
	return result.Transcription, nil
}

// Optimize submits a transcript and returns the proposed schedule
func (c *Client) Optimize(ctx context.Context, transcript string) (Schedule, error) {
	if transcript == "" {
		return nil, ErrEmptyTranscript
	}

	body, err := json.Marshal(OptimizeRequest{Transcription: transcript})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + c.optimizePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Sending optimization request", "url", url, "chars", len(transcript))

	var result OptimizeResponse
	if err := c.do(req, "optimize", &result); err != nil {
		return nil, err
	}

	c.logger.Info("Schedule received", "rows", len(result.Schedule))
	return result.Schedule, nil
}

// do sends req and decodes a 2xx JSON reply into out
func (c *Client) do(req *http.Request, op string, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		nerr := &NetworkError{Op: op, URL: req.URL.String(), Err: err}
		c.logger.Warn("Request failed", "op", op, "error", err, "timeout", nerr.Timeout())
		return nerr
	}
	defer resp.Body.Close()

	c.logger.Debug("Reply received", "op", op, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("Request rejected", "op", op, "status", resp.StatusCode, "body", string(snippet))
		return &HTTPError{Status: resp.StatusCode, Body: string(snippet)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ReplyError{Err: fmt.Errorf("failed to decode %s response: %w", op, err)}
	}
	return nil
}
