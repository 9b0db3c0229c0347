// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     capture
// Description: Playback of recordings using PortAudio
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package capture

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"
)

const playbackRate = 48000

// PCM is decoded interleaved audio
type PCM struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Player plays recording files
type Player struct {
	ffmpegPath string

	mu      sync.Mutex
	playing bool
}

// NewPlayer creates a player; ffmpegPath is used for compressed formats
func NewPlayer(ffmpegPath string) *Player {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Player{ffmpegPath: ffmpegPath}
}

// IsPlaying returns whether audio is currently playing
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Play decodes the file and plays it on the default output device. It
// returns when playback ends or ctx is cancelled.
func (p *Player) Play(ctx context.Context, path string) error {
	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return fmt.Errorf("already playing")
	}
	p.playing = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.playing = false
		p.mu.Unlock()
	}()

	pcm, err := p.Decode(ctx, path)
	if err != nil {
		return err
	}
	return playPCM(ctx, pcm)
}

// Decode reads a recording into PCM. WAV is decoded in-process, other
// formats through ffmpeg.
func (p *Player) Decode(ctx context.Context, path string) (PCM, error) {
	format, err := FormatFromFilename(path)
	if err != nil {
		return PCM{}, err
	}
	if format == FormatWAV {
		return decodeWAV(path)
	}
	return p.decodeFFmpeg(ctx, path)
}

func decodeWAV(path string) (PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return PCM{}, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return PCM{}, fmt.Errorf("not a valid WAV file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return PCM{}, fmt.Errorf("failed to parse WAV: %w", err)
	}

	scale := float32(math.Pow(2, float64(dec.BitDepth-1)))
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / scale
	}
	return PCM{
		Samples:    samples,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}, nil
}

func (p *Player) decodeFFmpeg(ctx context.Context, path string) (PCM, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.ffmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-f", "f32le",
		"-ac", "1",
		"-ar", strconv.Itoa(playbackRate),
		"pipe:1",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return PCM{}, fmt.Errorf("ffmpeg: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	raw := stdout.Bytes()
	samples := make([]float32, len(raw)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return PCM{Samples: samples, SampleRate: playbackRate, Channels: 1}, nil
}

// playPCM writes samples to the default output stream
func playPCM(ctx context.Context, pcm PCM) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	const framesPerBuffer = 1024
	buffer := make([]float32, framesPerBuffer*pcm.Channels)

	stream, err := portaudio.OpenDefaultStream(0, pcm.Channels, float64(pcm.SampleRate), framesPerBuffer, &buffer)
	if err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start output stream: %w", err)
	}
	defer stream.Stop()

	for pos := 0; pos < len(pcm.Samples); pos += len(buffer) {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := copy(buffer, pcm.Samples[pos:])
		for i := n; i < len(buffer); i++ {
			buffer[i] = 0
		}
		if err := stream.Write(); err != nil {
			return fmt.Errorf("failed to write to stream: %w", err)
		}
	}
	return nil
}
