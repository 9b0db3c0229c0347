package capture

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func sine(n int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/16000))
	}
	return s
}

func TestWAVEncoder(t *testing.T) {
	dir := t.TempDir()
	var out [][]byte
	enc, err := NewEncoder(context.Background(), FormatWAV, EncoderOptions{
		SampleRate: 16000,
		Channels:   1,
		TempDir:    dir,
	}, func(b []byte) { out = append(out, b) })
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}

	for i := 0; i < 4; i++ {
		if err := enc.Write(sine(1600)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if len(out) != 0 {
		t.Errorf("wav emitted %d fragments before Close", len(out))
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if len(out) != 1 {
		t.Fatalf("got %d fragments, want 1", len(out))
	}
	data := out[0]
	if !bytes.HasPrefix(data, []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		t.Errorf("output is not a WAV file: % x", data[:12])
	}
	// 6400 samples * 2 bytes + 44 byte header
	if len(data) < 6400*2+44 {
		t.Errorf("len = %d, want >= %d", len(data), 6400*2+44)
	}

	left, _ := filepath.Glob(filepath.Join(dir, "trec-*.wav"))
	if len(left) != 0 {
		t.Errorf("temp files left behind: %v", left)
	}
}

func TestWAVRoundTripThroughPlayerDecode(t *testing.T) {
	var data []byte
	enc, err := NewEncoder(context.Background(), FormatWAV, EncoderOptions{
		SampleRate: 16000,
		Channels:   1,
		TempDir:    t.TempDir(),
	}, func(b []byte) { data = b })
	if err != nil {
		t.Fatal(err)
	}
	in := sine(800)
	if err := enc.Write(in); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "recording.wav")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	pcm, err := NewPlayer("").Decode(context.Background(), path)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if pcm.SampleRate != 16000 || pcm.Channels != 1 {
		t.Errorf("pcm = %d Hz, %d ch", pcm.SampleRate, pcm.Channels)
	}
	if len(pcm.Samples) != len(in) {
		t.Fatalf("decoded %d samples, want %d", len(pcm.Samples), len(in))
	}
	for i := range in {
		if math.Abs(float64(pcm.Samples[i]-in[i])) > 0.001 {
			t.Fatalf("sample %d = %v, want %v", i, pcm.Samples[i], in[i])
		}
	}
}

func TestFFmpegEncoder(t *testing.T) {
	if !probeFFmpeg("").Supports(FormatOggOpus) {
		t.Skip("ffmpeg with libopus not installed")
	}

	var out []byte
	fragments := 0
	enc, err := NewEncoder(context.Background(), FormatOggOpus, EncoderOptions{
		SampleRate: 48000,
		Channels:   1,
	}, func(b []byte) {
		fragments++
		out = append(out, b...)
	})
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := enc.Write(sine(4800)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if fragments == 0 {
		t.Fatal("no fragments emitted")
	}
	if !bytes.HasPrefix(out, []byte("OggS")) {
		t.Errorf("output does not start with an Ogg page: % x", out[:4])
	}
}

func TestNewEncoder_Unsupported(t *testing.T) {
	_, err := NewEncoder(context.Background(), Format{MIMEType: "audio/flac", Ext: "flac"}, EncoderOptions{}, func([]byte) {})
	if err == nil {
		t.Fatal("expected error")
	}
}
