// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     capture
// Description: PCM encoders producing recording fragments
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package capture

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// fragmentSize is the read size for encoder output
const fragmentSize = 4096

// Encoder turns interleaved float32 samples into an encoded byte stream.
// Encoded output is handed to the emit function given at construction,
// in order, from at most one goroutine at a time. All output has been
// emitted when Close returns.
type Encoder interface {
	Write(samples []float32) error
	Close() error
}

// EncoderOptions configures NewEncoder
type EncoderOptions struct {
	SampleRate int
	Channels   int
	FFmpegPath string
	TempDir    string
}

// NewEncoder creates an encoder for the format
func NewEncoder(ctx context.Context, format Format, opts EncoderOptions, emit func([]byte)) (Encoder, error) {
	if format.NeedsFFmpeg() {
		return newFFmpegEncoder(ctx, format, opts, emit)
	}
	if format == FormatWAV {
		return newWAVEncoder(opts, emit)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// probeTimeout bounds each ffmpeg listing call
const probeTimeout = 5 * time.Second

// FFmpegCapabilities lists the encoders and muxers an ffmpeg build offers.
// The zero value supports no ffmpeg format.
type FFmpegCapabilities struct {
	Encoders map[string]bool
	Muxers   map[string]bool
}

// Supports reports whether f can be produced. Formats encoded in-process
// are always supported.
func (c FFmpegCapabilities) Supports(f Format) bool {
	if !f.NeedsFFmpeg() {
		return true
	}
	return c.Encoders[f.codec] && c.Muxers[f.muxer]
}

// ProbeFFmpeg asks the ffmpeg binary at path for its encoders and muxers
func ProbeFFmpeg(ctx context.Context, path string) (FFmpegCapabilities, error) {
	if path == "" {
		path = "ffmpeg"
	}

	var caps FFmpegCapabilities
	for _, list := range []struct {
		flag string
		dst  *map[string]bool
	}{
		{"-encoders", &caps.Encoders},
		{"-muxers", &caps.Muxers},
	} {
		out, err := exec.CommandContext(ctx, path, "-hide_banner", list.flag).Output()
		if err != nil {
			return FFmpegCapabilities{}, fmt.Errorf("ffmpeg %s: %w", list.flag, err)
		}
		*list.dst = parseFFmpegList(out)
	}
	return caps, nil
}

func probeFFmpeg(path string) FFmpegCapabilities {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	caps, err := ProbeFFmpeg(ctx, path)
	if err != nil {
		return FFmpegCapabilities{}
	}
	return caps
}

// parseFFmpegList reads the names from "ffmpeg -encoders" or "-muxers"
// output. Entries follow a dashed separator line as "<flags> <name> <text>";
// a name may hold several comma separated aliases.
func parseFFmpegList(out []byte) map[string]bool {
	names := make(map[string]bool)
	inList := false
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if !inList {
			inList = strings.HasPrefix(fields[0], "--")
			continue
		}
		if len(fields) < 2 {
			continue
		}
		for _, name := range strings.Split(fields[1], ",") {
			names[name] = true
		}
	}
	return names
}

// ffmpegEncoder pipes f32le PCM through an ffmpeg subprocess. Every read
// from its stdout is one fragment.
type ffmpegEncoder struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  bytes.Buffer
	readErr chan error
	scratch []byte

	closeOnce sync.Once
	closeErr  error
}

func newFFmpegEncoder(ctx context.Context, format Format, opts EncoderOptions, emit func([]byte)) (*ffmpegEncoder, error) {
	path := opts.FFmpegPath
	if path == "" {
		path = "ffmpeg"
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "f32le",
		"-ar", strconv.Itoa(opts.SampleRate),
		"-ac", strconv.Itoa(opts.Channels),
		"-i", "pipe:0",
		"-c:a", format.codec,
		"-b:a", "32k",
		"-f", format.muxer,
		"pipe:1",
	}

	e := &ffmpegEncoder{
		cmd:     exec.CommandContext(ctx, path, args...),
		readErr: make(chan error, 1),
	}
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin: %w", err)
	}
	stdout, err := e.cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}

	go func() {
		buf := make([]byte, fragmentSize)
		for {
			n, err := stdout.Read(buf)
			if n > 0 {
				frag := make([]byte, n)
				copy(frag, buf[:n])
				emit(frag)
			}
			if err == io.EOF {
				e.readErr <- nil
				return
			}
			if err != nil {
				e.readErr <- err
				return
			}
		}
	}()

	return e, nil
}

func (e *ffmpegEncoder) Write(samples []float32) error {
	need := len(samples) * 4
	if cap(e.scratch) < need {
		e.scratch = make([]byte, need)
	}
	b := e.scratch[:need]
	for i, s := range samples {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(s))
	}
	if _, err := e.stdin.Write(b); err != nil {
		return fmt.Errorf("ffmpeg write: %w", err)
	}
	return nil
}

// Close flushes ffmpeg and waits until all output was emitted
func (e *ffmpegEncoder) Close() error {
	e.closeOnce.Do(func() {
		e.stdin.Close()
		readErr := <-e.readErr
		waitErr := e.cmd.Wait()
		switch {
		case waitErr != nil:
			e.closeErr = fmt.Errorf("ffmpeg: %w: %s", waitErr, bytes.TrimSpace(e.stderr.Bytes()))
		case readErr != nil:
			e.closeErr = fmt.Errorf("ffmpeg read: %w", readErr)
		}
	})
	return e.closeErr
}

// wavEncoder writes 16-bit PCM WAV to a temp file. The header needs the
// final length, so the whole file is one fragment emitted on Close.
type wavEncoder struct {
	file     *os.File
	enc      *wav.Encoder
	buf      *audio.IntBuffer
	channels int
	emit     func([]byte)

	closeOnce sync.Once
	closeErr  error
}

func newWAVEncoder(opts EncoderOptions, emit func([]byte)) (*wavEncoder, error) {
	f, err := os.CreateTemp(opts.TempDir, "trec-*.wav")
	if err != nil {
		return nil, fmt.Errorf("wav temp file: %w", err)
	}
	return &wavEncoder{
		file: f,
		enc:  wav.NewEncoder(f, opts.SampleRate, 16, opts.Channels, 1),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: opts.Channels,
				SampleRate:  opts.SampleRate,
			},
			SourceBitDepth: 16,
		},
		channels: opts.Channels,
		emit:     emit,
	}, nil
}

func (e *wavEncoder) Write(samples []float32) error {
	if cap(e.buf.Data) < len(samples) {
		e.buf.Data = make([]int, len(samples))
	}
	e.buf.Data = e.buf.Data[:len(samples)]
	for i, s := range samples {
		e.buf.Data[i] = int(clamp(s) * math.MaxInt16)
	}
	if err := e.enc.Write(e.buf); err != nil {
		return fmt.Errorf("wav write: %w", err)
	}
	return nil
}

func (e *wavEncoder) Close() error {
	e.closeOnce.Do(func() {
		defer os.Remove(e.file.Name())

		if err := e.enc.Close(); err != nil {
			e.file.Close()
			e.closeErr = fmt.Errorf("wav finalize: %w", err)
			return
		}
		if err := e.file.Close(); err != nil {
			e.closeErr = fmt.Errorf("wav close: %w", err)
			return
		}
		data, err := os.ReadFile(e.file.Name())
		if err != nil {
			e.closeErr = fmt.Errorf("wav read: %w", err)
			return
		}
		e.emit(data)
	})
	return e.closeErr
}

func clamp(s float32) float32 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
