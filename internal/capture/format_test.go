package capture

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"audio/ogg; codecs=opus", FormatOggOpus, false},
		{"audio/ogg;codecs=opus", FormatOggOpus, false},
		{"AUDIO/OGG; CODECS=OPUS", FormatOggOpus, false},
		{"audio/ogg", FormatOggOpus, false},
		{"audio/webm", FormatWebM, false},
		{"webm", FormatWebM, false},
		{"audio/wav", FormatWAV, false},
		{"audio/x-wav", FormatWAV, false},
		{"audio/mp4", Format{}, true},
		{"", Format{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("error %v is not ErrUnsupportedFormat", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

var (
	fullFFmpeg = FFmpegCapabilities{
		Encoders: map[string]bool{"libopus": true, "pcm_s16le": true},
		Muxers:   map[string]bool{"ogg": true, "webm": true, "wav": true},
	}
	noOpusFFmpeg = FFmpegCapabilities{
		Encoders: map[string]bool{"aac": true, "pcm_s16le": true},
		Muxers:   map[string]bool{"ogg": true, "webm": true, "wav": true},
	}
	noWebMFFmpeg = FFmpegCapabilities{
		Encoders: map[string]bool{"libopus": true},
		Muxers:   map[string]bool{"ogg": true},
	}
)

func TestChooseFormat(t *testing.T) {
	tests := []struct {
		name  string
		prefs []string
		caps  FFmpegCapabilities
		want  Format
	}{
		{"defaults with ffmpeg", nil, fullFFmpeg, FormatOggOpus},
		{"defaults without ffmpeg", nil, FFmpegCapabilities{}, FormatWAV},
		{"defaults without libopus", nil, noOpusFFmpeg, FormatWAV},
		{"webm first", []string{"audio/webm", "audio/ogg; codecs=opus"}, fullFFmpeg, FormatWebM},
		{"webm muxer missing", []string{"audio/webm", "audio/ogg; codecs=opus"}, noWebMFFmpeg, FormatOggOpus},
		{"unknown skipped", []string{"audio/flac", "audio/webm"}, fullFFmpeg, FormatWebM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChooseFormat(tt.prefs, tt.caps.Supports)
			if err != nil {
				t.Fatalf("ChooseFormat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ChooseFormat() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := ChooseFormat([]string{"audio/ogg; codecs=opus"}, FFmpegCapabilities{}.Supports); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ChooseFormat() without ffmpeg = %v, want ErrUnsupportedFormat", err)
	}
}

func TestParseFFmpegList(t *testing.T) {
	encoders := []byte(`Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx264              libx264 H.264 / AVC
 A....D aac                  AAC (Advanced Audio Coding)
 A....D libopus              libopus Opus (codec opus)
`)
	muxers := []byte(` File formats:
 D. = Demuxing supported
 .E = Muxing supported
 --
  E ogg             Ogg
  E webm            WebM
 DE wav             WAV / WAVE (Waveform Audio)
`)

	enc := parseFFmpegList(encoders)
	for _, name := range []string{"libx264", "aac", "libopus"} {
		if !enc[name] {
			t.Errorf("encoder %q not found", name)
		}
	}
	if enc["Video"] || enc["="] || len(enc) != 3 {
		t.Errorf("legend parsed as encoders: %v", enc)
	}

	mux := parseFFmpegList(muxers)
	caps := FFmpegCapabilities{Encoders: enc, Muxers: mux}
	for _, f := range []Format{FormatOggOpus, FormatWebM, FormatWAV} {
		if !caps.Supports(f) {
			t.Errorf("Supports(%v) = false", f)
		}
	}

	caps.Encoders = parseFFmpegList([]byte(" ------\n A....D aac  AAC\n"))
	if caps.Supports(FormatOggOpus) || caps.Supports(FormatWebM) {
		t.Error("opus formats supported without libopus")
	}
}

func TestFormat_Filename(t *testing.T) {
	tests := map[Format]string{
		FormatOggOpus: "recording.ogg",
		FormatWebM:    "recording.webm",
		FormatWAV:     "recording.wav",
	}
	for f, want := range tests {
		if got := f.Filename(); got != want {
			t.Errorf("%v.Filename() = %q, want %q", f, got, want)
		}
	}
}

func TestFormatFromFilename(t *testing.T) {
	if f, err := FormatFromFilename("/tmp/Note.OGG"); err != nil || f != FormatOggOpus {
		t.Errorf("FormatFromFilename(ogg) = %v, %v", f, err)
	}
	if f, err := FormatFromFilename("take.opus"); err != nil || f != FormatOggOpus {
		t.Errorf("FormatFromFilename(opus) = %v, %v", f, err)
	}
	if _, err := FormatFromFilename("noext"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("FormatFromFilename(noext) = %v", err)
	}
}
