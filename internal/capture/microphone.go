// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     capture
// Description: Microphone access using PortAudio
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

var (
	// ErrNoDevice means no usable input device exists
	ErrNoDevice = errors.New("no input device available")

	// ErrAccess means the device exists but could not be opened
	ErrAccess = errors.New("input device access refused")

	// ErrStreamEnded means the input stream stopped delivering audio
	ErrStreamEnded = errors.New("input stream ended")
)

// Microphone opens input streams
type Microphone interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an open microphone stream delivering interleaved float32 samples
type Stream interface {
	// Samples is closed when the stream ends
	Samples() <-chan []float32

	// Err reports why Samples was closed, nil after Close
	Err() error

	SampleRate() int
	Channels() int
	Close() error
}

// MicrophoneConfig holds configuration for microphone capture
type MicrophoneConfig struct {
	Device          string // empty or "default" selects the system default
	SampleRate      int
	Channels        int
	FramesPerBuffer int
}

// PortAudioMicrophone opens PortAudio input streams
type PortAudioMicrophone struct {
	cfg MicrophoneConfig
}

// NewPortAudioMicrophone creates a microphone for the configured device
func NewPortAudioMicrophone(cfg MicrophoneConfig) *PortAudioMicrophone {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 48000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.FramesPerBuffer <= 0 {
		cfg.FramesPerBuffer = 1024
	}
	return &PortAudioMicrophone{cfg: cfg}
}

// Open initializes PortAudio and starts an input stream
func (m *PortAudioMicrophone) Open(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: failed to initialize PortAudio: %v", ErrNoDevice, err)
	}

	device, err := m.inputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	buffer := make([]float32, m.cfg.FramesPerBuffer*m.cfg.Channels)
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: m.cfg.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(m.cfg.SampleRate),
		FramesPerBuffer: m.cfg.FramesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, buffer)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: failed to open %q: %v", ErrAccess, device.Name, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: failed to start %q: %v", ErrAccess, device.Name, err)
	}

	s := &paStream{
		stream:     stream,
		buffer:     buffer,
		sampleRate: m.cfg.SampleRate,
		channels:   m.cfg.Channels,
		samples:    make(chan []float32, 256),
		done:       make(chan struct{}),
		loopDone:   make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// inputDevice resolves the configured device, falling back to the default
func (m *PortAudioMicrophone) inputDevice() (*portaudio.DeviceInfo, error) {
	if m.cfg.Device != "" && m.cfg.Device != "default" {
		devices, err := portaudio.Devices()
		if err == nil {
			for _, dev := range devices {
				if dev.Name == m.cfg.Device && dev.MaxInputChannels > 0 {
					return dev, nil
				}
			}
		}
	}

	dev, err := portaudio.DefaultInputDevice()
	if err != nil || dev == nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	if dev.MaxInputChannels < m.cfg.Channels {
		return nil, fmt.Errorf("%w: %q has %d input channels", ErrNoDevice, dev.Name, dev.MaxInputChannels)
	}
	return dev, nil
}

type paStream struct {
	stream     *portaudio.Stream
	buffer     []float32
	sampleRate int
	channels   int

	samples  chan []float32
	done     chan struct{}
	loopDone chan struct{}

	mu        sync.Mutex
	err       error
	closeOnce sync.Once
	closeErr  error
}

// readLoop continuously reads audio from the stream until closed or failed
func (s *paStream) readLoop() {
	defer close(s.loopDone)
	defer close(s.samples)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		if err := s.stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				continue
			}
			select {
			case <-s.done:
			default:
				s.mu.Lock()
				s.err = fmt.Errorf("%w: %v", ErrStreamEnded, err)
				s.mu.Unlock()
			}
			return
		}

		chunk := make([]float32, len(s.buffer))
		copy(chunk, s.buffer)

		select {
		case s.samples <- chunk:
		case <-s.done:
			return
		}
	}
}

func (s *paStream) Samples() <-chan []float32 { return s.samples }
func (s *paStream) SampleRate() int           { return s.sampleRate }
func (s *paStream) Channels() int             { return s.channels }

func (s *paStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops the stream and releases PortAudio
func (s *paStream) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		// a pending Read returns within one buffer period
		<-s.loopDone
		s.stream.Stop()
		if err := s.stream.Close(); err != nil {
			s.closeErr = fmt.Errorf("failed to close audio stream: %w", err)
		}
		portaudio.Terminate()
	})
	return s.closeErr
}
