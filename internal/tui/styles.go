// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     tui
// Description: Lipgloss styles for the recorder UI
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6")
	ColorSecondary = lipgloss.Color("#06B6D4")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorError     = lipgloss.Color("#EF4444")
	ColorRecording = lipgloss.Color("#DC2626")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorText      = lipgloss.Color("#F8FAFC")
	ColorTextMuted = lipgloss.Color("#94A3B8")
)

// Header
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)
)

// Recorder status
var (
	StateIdleStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	StateRecordingStyle = lipgloss.NewStyle().
				Foreground(ColorRecording).
				Bold(true)

	StateBusyStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ElapsedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)
)

// Transcript panel
var (
	TranscriptPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(0, 1)

	TranscriptLabelStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Bold(true)

	TranscriptTextStyle = lipgloss.NewStyle().
				Foreground(ColorText)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Italic(true)

	PlaybackStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)
)

// Schedule preview modal
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	ModalNoteStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Italic(true).
			MarginTop(1)
)

// Status and help bars
var (
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// stateStyle picks the status style for a pipeline state label
func stateStyle(recording, busy bool) lipgloss.Style {
	switch {
	case recording:
		return StateRecordingStyle
	case busy:
		return StateBusyStyle
	default:
		return StateIdleStyle
	}
}
