// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     tui
// Description: Main Bubbletea model for the triage recorder
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/triagesys/trec/internal/api"
	"github.com/triagesys/trec/internal/recorder"
	"github.com/triagesys/trec/pkg/core/logging"
	"github.com/triagesys/trec/pkg/core/version"
)

// Controller is the part of *recorder.Controller the UI drives
type Controller interface {
	Snapshot() recorder.Snapshot
	AddListener(l recorder.Listener)
	StartCapture(ctx context.Context) error
	StopCapture()
	Optimize(ctx context.Context) (api.Schedule, error)
	ClearTranscript()
	ClosePreview()
	ShowPreview() bool
}

// Player plays back the accepted recording. *capture.Player implements it.
type Player interface {
	Play(ctx context.Context, path string) error
}

// Config holds UI configuration
type Config struct {
	Controller Controller
	Player     Player

	// Endpoint is shown in the status bar
	Endpoint  string
	AltScreen bool
	ShowHelp  bool
}

// Model is the Bubbletea model of the recorder
type Model struct {
	// State
	width   int
	height  int
	ready   bool
	snap    recorder.Snapshot
	playing bool
	now     func() time.Time

	// Components
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
	table    table.Model

	// number of rows the table was built from
	tableRows int

	ctrl     Controller
	player   Player
	endpoint string
	showHelp bool
	logger   *logging.Logger
}

const (
	headerHeight = 4
	footerHeight = 7

	tickInterval = 500 * time.Millisecond
)

// New creates a new recorder model
func New(cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	h := help.New()
	h.Styles.ShortKey = HelpKeyStyle
	h.Styles.ShortDesc = HelpDescStyle
	h.Styles.FullKey = HelpKeyStyle
	h.Styles.FullDesc = HelpDescStyle

	m := Model{
		keys:     newKeyMap(),
		help:     h,
		spinner:  sp,
		viewport: viewport.New(76, 8),
		now:      time.Now,
		ctrl:     cfg.Controller,
		player:   cfg.Player,
		endpoint: cfg.Endpoint,
		showHelp: cfg.ShowHelp,
		logger:   logging.New("tui"),
	}
	if m.ctrl != nil {
		m.snap = m.ctrl.Snapshot()
	}
	m.refreshKeys()
	m.updateViewportContent()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tick(),
	)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		vpHeight := msg.Height - headerHeight - footerHeight
		if vpHeight < 3 {
			vpHeight = 3
		}
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = vpHeight
		m.ready = true
		m.updateViewportContent()

	case snapshotMsg:
		snap := recorder.Snapshot(msg)
		if snap.Seq < m.snap.Seq {
			return m, nil
		}
		m.applySnapshot(snap)

	case actionDoneMsg:
		if msg.err != nil {
			m.logger.Debug("Action finished with error", "action", msg.action, "error", msg.err)
		}

	case playbackDoneMsg:
		m.playing = false
		if msg.err != nil {
			m.logger.Warn("Playback failed", "error", msg.err)
		}
		m.refreshKeys()

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tickMsg:
		cmds = append(cmds, tick())
	}

	if m.snap.PreviewVisible {
		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// applySnapshot takes over a newer controller state
func (m *Model) applySnapshot(snap recorder.Snapshot) {
	scheduleChanged := len(snap.Schedule) != m.tableRows || (snap.PreviewVisible && !m.snap.PreviewVisible)
	m.snap = snap

	if scheduleChanged && snap.Schedule != nil {
		m.table = newScheduleTable(snap.Schedule)
		m.tableRows = len(snap.Schedule)
	}
	if snap.Schedule == nil {
		m.tableRows = 0
	}

	m.refreshKeys()
	m.updateViewportContent()
}

func (m *Model) refreshKeys() {
	m.keys.update(m.snap, m.player != nil && !m.playing)
}

// handleKeyPress maps keys to controller calls. Blocking calls run as
// commands; their effect arrives as snapshots.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Close):
		return m, m.closePreview()

	case m.snap.PreviewVisible:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Start):
		m.keys.Start.SetEnabled(false)
		return m, m.startCapture()

	case key.Matches(msg, m.keys.Stop):
		m.keys.Stop.SetEnabled(false)
		return m, m.stopCapture()

	case key.Matches(msg, m.keys.Clear):
		return m, m.clearTranscript()

	case key.Matches(msg, m.keys.Optimize):
		m.keys.Optimize.SetEnabled(false)
		return m, m.optimize()

	case key.Matches(msg, m.keys.Play):
		m.playing = true
		m.keys.Play.SetEnabled(false)
		return m, m.play(m.snap.PlaybackPath)

	case key.Matches(msg, m.keys.Preview):
		return m, m.showPreview()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) startCapture() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return actionDoneMsg{action: "start", err: ctrl.StartCapture(context.Background())}
	}
}

func (m Model) stopCapture() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.StopCapture()
		return actionDoneMsg{action: "stop"}
	}
}

func (m Model) clearTranscript() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.ClearTranscript()
		return actionDoneMsg{action: "clear"}
	}
}

func (m Model) optimize() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		_, err := ctrl.Optimize(context.Background())
		return actionDoneMsg{action: "optimize", err: err}
	}
}

func (m Model) closePreview() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.ClosePreview()
		return actionDoneMsg{action: "close_preview"}
	}
}

func (m Model) showPreview() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.ShowPreview()
		return actionDoneMsg{action: "show_preview"}
	}
}

func (m Model) play(path string) tea.Cmd {
	player := m.player
	return func() tea.Msg {
		return playbackDoneMsg{err: player.Play(context.Background(), path)}
	}
}

// updateViewportContent renders the transcript into the viewport
func (m *Model) updateViewportContent() {
	width := m.viewport.Width
	if width <= 0 {
		width = 76
	}

	var content string
	switch {
	case m.snap.Transcript != "":
		content = TranscriptTextStyle.Width(width).Render(m.snap.Transcript)
	case m.snap.State == recorder.StateUploading:
		content = PlaceholderStyle.Render("Waiting for the transcription...")
	default:
		content = PlaceholderStyle.Render("Press r to record. The transcription appears here.")
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	if msg := m.snap.ErrorMessage; msg != "" {
		b.WriteString(ErrorStyle.Render(msg))
		b.WriteString("\n")
	}

	if m.snap.PreviewVisible {
		b.WriteString(renderPreview(m.table, len(m.snap.Schedule), m.width))
	} else {
		b.WriteString(m.renderTranscript())
		if path := m.snap.PlaybackPath; path != "" {
			b.WriteString("\n")
			label := "Recording saved: " + path
			if m.playing {
				label = "Playing: " + path
			}
			b.WriteString(PlaybackStyle.Render(label))
		}
	}
	b.WriteString("\n")

	b.WriteString(m.renderStatusBar())
	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
	}

	return b.String()
}

// renderHeader renders the title panel
func (m Model) renderHeader() string {
	title := TitleStyle.Render("Triage Voice Recorder")
	sub := SubtitleStyle.Render("record, transcribe, optimize")
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", sub)

	style := TitlePanelStyle
	if m.width > 4 {
		style = style.Width(m.width - 2)
	}
	return style.Render(header)
}

// renderStatus renders the pipeline state with elapsed time
func (m Model) renderStatus() string {
	state := m.snap.State
	recording := state == recorder.StateRecording
	busy := state.Busy() || m.snap.Optimizing

	var b strings.Builder
	if busy && !recording {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
	} else {
		b.WriteString(state.Icon())
		b.WriteString(" ")
	}

	label := state.String()
	if m.snap.Optimizing && state == recorder.StateIdle {
		label = "Optimizing..."
	}
	b.WriteString(stateStyle(recording, busy).Render(label))

	if recording && !m.snap.RecordingSince.IsZero() {
		elapsed := m.now().Sub(m.snap.RecordingSince)
		b.WriteString(" ")
		b.WriteString(ElapsedStyle.Render(formatElapsed(elapsed)))
	}
	if !m.snap.Format.IsZero() && (recording || state == recorder.StateStopping) {
		b.WriteString(" ")
		b.WriteString(ElapsedStyle.Render(m.snap.Format.MIMEType))
	}

	return b.String()
}

// renderTranscript renders the transcript panel
func (m Model) renderTranscript() string {
	var b strings.Builder
	b.WriteString(TranscriptLabelStyle.Render("Transcription"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())

	style := TranscriptPanelStyle
	if m.width > 4 {
		style = style.Width(m.width - 2)
	}
	return style.Render(b.String())
}

// renderStatusBar renders endpoint and version
func (m Model) renderStatusBar() string {
	parts := []string{"v" + version.Client}
	if m.endpoint != "" {
		parts = append(parts, m.endpoint)
	}
	if n := len(m.snap.Schedule); n > 0 {
		parts = append(parts, fmt.Sprintf("%d scheduled", n))
	}
	return StatusBarStyle.Render(strings.Join(parts, " | "))
}

// formatElapsed formats a recording duration as m:ss
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Run starts the recorder UI and blocks until it exits
func Run(cfg Config) error {
	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	p := tea.NewProgram(New(cfg), opts...)
	cfg.Controller.AddListener(func(s recorder.Snapshot) {
		p.Send(snapshotMsg(s))
	})

	_, err := p.Run()
	return err
}
