// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     capture
// Description: Recording formats and format negotiation
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package capture

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when no requested format can be produced
var ErrUnsupportedFormat = errors.New("unsupported recording format")

// Format describes an encoded recording format
type Format struct {
	MIMEType string
	Ext      string

	// ffmpeg muxer and codec, empty for formats encoded in-process
	muxer string
	codec string
}

// Known formats in default preference order
var (
	FormatOggOpus = Format{MIMEType: "audio/ogg; codecs=opus", Ext: "ogg", muxer: "ogg", codec: "libopus"}
	FormatWebM    = Format{MIMEType: "audio/webm", Ext: "webm", muxer: "webm", codec: "libopus"}
	FormatWAV     = Format{MIMEType: "audio/wav", Ext: "wav"}
)

var knownFormats = []Format{FormatOggOpus, FormatWebM, FormatWAV}

// DefaultPreferences returns the MIME types tried when nothing is configured
func DefaultPreferences() []string {
	prefs := make([]string, len(knownFormats))
	for i, f := range knownFormats {
		prefs[i] = f.MIMEType
	}
	return prefs
}

// Filename returns the upload filename for the format
func (f Format) Filename() string {
	return "recording." + f.Ext
}

// NeedsFFmpeg reports whether the format is produced by an ffmpeg subprocess
func (f Format) NeedsFFmpeg() bool {
	return f.muxer != ""
}

// IsZero reports whether f is the zero Format
func (f Format) IsZero() bool {
	return f.MIMEType == ""
}

func (f Format) String() string {
	return f.MIMEType
}

// ParseFormat resolves a MIME type such as "audio/ogg; codecs=opus" or a
// bare extension such as "webm".
func ParseFormat(s string) (Format, error) {
	norm := normalizeMIME(s)
	for _, f := range knownFormats {
		if normalizeMIME(f.MIMEType) == norm || f.Ext == norm {
			return f, nil
		}
	}
	switch norm {
	case "audio/ogg", "opus", "audio/opus":
		return FormatOggOpus, nil
	case "audio/x-wav", "audio/wave":
		return FormatWAV, nil
	}
	return Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromFilename picks the format from a file extension
func FormatFromFilename(name string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return Format{}, fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, name)
	}
	return ParseFormat(ext)
}

// ChooseFormat returns the first preferred format the platform can produce.
// Formats rejected by supports are skipped.
func ChooseFormat(prefs []string, supports func(Format) bool) (Format, error) {
	if len(prefs) == 0 {
		prefs = DefaultPreferences()
	}
	for _, p := range prefs {
		f, err := ParseFormat(p)
		if err != nil {
			continue
		}
		if supports != nil && !supports(f) {
			continue
		}
		return f, nil
	}
	return Format{}, fmt.Errorf("%w: none of %v", ErrUnsupportedFormat, prefs)
}

func normalizeMIME(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(strings.ReplaceAll(s, ";", "; ")), " ")
}

// Audio is a finalized recording
type Audio struct {
	Data   []byte
	Format Format
}

// Len returns the encoded size in bytes
func (a Audio) Len() int {
	return len(a.Data)
}
