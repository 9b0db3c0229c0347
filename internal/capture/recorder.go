// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     capture
// Description: Media recorder driving a stream into an encoder
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrMaxDuration is reported when a recording hits the configured limit
var ErrMaxDuration = errors.New("maximum recording duration reached")

// Handlers receive recorder events. OnData is called zero or more times,
// then OnStop exactly once. OnStop's error is nil only for a requested Stop.
type Handlers struct {
	OnData func(fragment []byte)
	OnStop func(err error)
}

// Recorder encodes a stream until stopped
type Recorder interface {
	Start() error
	// Stop requests the end of the recording; repeated calls are ignored
	Stop()
	Format() Format
}

// RecorderFactory creates recorders for open streams
type RecorderFactory interface {
	NewRecorder(ctx context.Context, stream Stream, h Handlers) (Recorder, error)
}

// RecorderConfig configures MediaRecorderFactory
type RecorderConfig struct {
	Preferences []string
	FFmpegPath  string
	TempDir     string
	MaxDuration time.Duration
}

// MediaRecorderFactory negotiates a format and builds MediaRecorders
type MediaRecorderFactory struct {
	cfg   RecorderConfig
	probe func(path string) FFmpegCapabilities

	probeOnce sync.Once
	caps      FFmpegCapabilities
}

// NewMediaRecorderFactory creates a factory
func NewMediaRecorderFactory(cfg RecorderConfig) *MediaRecorderFactory {
	return &MediaRecorderFactory{cfg: cfg, probe: probeFFmpeg}
}

// Capabilities returns what the configured ffmpeg can encode. The binary
// is probed once per factory.
func (f *MediaRecorderFactory) Capabilities() FFmpegCapabilities {
	f.probeOnce.Do(func() {
		f.caps = f.probe(f.cfg.FFmpegPath)
	})
	return f.caps
}

// Format returns the format the next recorder would use
func (f *MediaRecorderFactory) Format() (Format, error) {
	return ChooseFormat(f.cfg.Preferences, f.Capabilities().Supports)
}

// NewRecorder picks the first producible format and starts its encoder
func (f *MediaRecorderFactory) NewRecorder(ctx context.Context, stream Stream, h Handlers) (Recorder, error) {
	format, err := f.Format()
	if err != nil {
		return nil, err
	}

	r := newMediaRecorder(stream, format, h, f.cfg.MaxDuration)
	enc, err := NewEncoder(ctx, format, EncoderOptions{
		SampleRate: stream.SampleRate(),
		Channels:   stream.Channels(),
		FFmpegPath: f.cfg.FFmpegPath,
		TempDir:    f.cfg.TempDir,
	}, r.emit)
	if err != nil {
		return nil, err
	}
	r.enc = enc
	return r, nil
}

// MediaRecorder feeds stream samples to an encoder and reports fragments
type MediaRecorder struct {
	stream      Stream
	enc         Encoder
	format      Format
	handlers    Handlers
	maxDuration time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
}

func newMediaRecorder(stream Stream, format Format, h Handlers, maxDuration time.Duration) *MediaRecorder {
	if h.OnData == nil {
		h.OnData = func([]byte) {}
	}
	if h.OnStop == nil {
		h.OnStop = func(error) {}
	}
	return &MediaRecorder{
		stream:      stream,
		format:      format,
		handlers:    h,
		maxDuration: maxDuration,
		stop:        make(chan struct{}),
	}
}

// Format returns the recording format
func (r *MediaRecorder) Format() Format {
	return r.format
}

// Start begins recording in a background goroutine
func (r *MediaRecorder) Start() error {
	started := false
	r.startOnce.Do(func() {
		started = true
		go r.run()
	})
	if !started {
		return fmt.Errorf("recorder already started")
	}
	return nil
}

// Stop requests a normal end of the recording
func (r *MediaRecorder) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *MediaRecorder) emit(fragment []byte) {
	if len(fragment) > 0 {
		r.handlers.OnData(fragment)
	}
}

func (r *MediaRecorder) run() {
	var limit <-chan time.Time
	if r.maxDuration > 0 {
		t := time.NewTimer(r.maxDuration)
		defer t.Stop()
		limit = t.C
	}

	reason := r.pump(limit)

	if err := r.enc.Close(); err != nil && reason == nil {
		reason = err
	}
	r.handlers.OnStop(reason)
}

// pump copies samples until a stop, a failure or the duration limit
func (r *MediaRecorder) pump(limit <-chan time.Time) error {
	samples := r.stream.Samples()
	for {
		select {
		case <-r.stop:
			return r.drain(samples)
		case <-limit:
			return ErrMaxDuration
		case chunk, ok := <-samples:
			if !ok {
				if err := r.stream.Err(); err != nil {
					return err
				}
				return ErrStreamEnded
			}
			if err := r.enc.Write(chunk); err != nil {
				return err
			}
		}
	}
}

// drain writes the chunks captured before the stop without waiting for more
func (r *MediaRecorder) drain(samples <-chan []float32) error {
	for {
		select {
		case chunk, ok := <-samples:
			if !ok {
				return nil
			}
			if err := r.enc.Write(chunk); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}
