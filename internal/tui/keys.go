// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     tui
// Description: Key bindings mirroring the recorder buttons
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/triagesys/trec/internal/recorder"
)

// keyMap holds the recorder's buttons as key bindings
type keyMap struct {
	Start    key.Binding
	Stop     key.Binding
	Clear    key.Binding
	Optimize key.Binding
	Play     key.Binding
	Preview  key.Binding
	Close    key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "start recording"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s", " "),
			key.WithHelp("s", "stop recording"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear transcript"),
		),
		Optimize: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "optimize"),
		),
		Play: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "play"),
		),
		Preview: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "schedule"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "enter"),
			key.WithHelp("esc", "close preview"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// update enables the bindings that would have an effect, the way the
// buttons of the recorder are enabled
func (k *keyMap) update(snap recorder.Snapshot, canPlay bool) {
	k.Start.SetEnabled(snap.CanStart() && !snap.PreviewVisible)
	k.Stop.SetEnabled(snap.CanStop())
	k.Clear.SetEnabled(snap.CanClear() && !snap.PreviewVisible)
	k.Optimize.SetEnabled(!snap.Optimizing && !snap.PreviewVisible)
	k.Play.SetEnabled(snap.PlaybackPath != "" && canPlay && !snap.PreviewVisible)
	k.Preview.SetEnabled(len(snap.Schedule) > 0 && !snap.PreviewVisible)
	k.Close.SetEnabled(snap.PreviewVisible)
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Optimize, k.Play, k.Preview, k.Close, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Play},
		{k.Clear, k.Optimize, k.Preview, k.Close},
		{k.Quit},
	}
}
