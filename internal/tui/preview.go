// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     tui
// Description: Schedule preview modal
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/triagesys/trec/internal/api"
)

const (
	previewTitle = "Schedule Preview"
	previewNote  = "Review the optimized schedule before using it. Values are shown as returned by the service."

	// maxPreviewRows is the number of rows visible before the table scrolls
	maxPreviewRows = 12
)

// newScheduleTable builds the preview table for a schedule
func newScheduleTable(schedule api.Schedule) table.Model {
	rows := make([]table.Row, 0, len(schedule))
	for _, r := range schedule {
		rows = append(rows, table.Row(r.Values()))
	}

	visible := len(rows)
	if visible > maxPreviewRows {
		visible = maxPreviewRows
	}
	if visible < 1 {
		visible = 1
	}

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Foreground(ColorSecondary).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ColorText).
		Background(ColorPrimary).
		Bold(false)

	cols := scheduleColumns(rows)
	width := 0
	for _, c := range cols {
		// cell padding is one column on each side
		width += c.Width + 2
	}

	// header plus its bottom border take two lines
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithStyles(s),
		table.WithFocused(true),
		table.WithWidth(width),
		table.WithHeight(visible+2),
	)

	return t
}

// scheduleColumns sizes every column to its widest value so no cell is
// truncated
func scheduleColumns(rows []table.Row) []table.Column {
	cols := make([]table.Column, len(api.Columns))
	for i, title := range api.Columns {
		width := runewidth.StringWidth(title)
		for _, row := range rows {
			if i < len(row) {
				if w := runewidth.StringWidth(row[i]); w > width {
					width = w
				}
			}
		}
		cols[i] = table.Column{Title: title, Width: width}
	}
	return cols
}

// renderPreview renders the schedule modal
func renderPreview(t table.Model, rows int, width int) string {
	var b strings.Builder
	b.WriteString(ModalTitleStyle.Render(previewTitle))
	b.WriteString("\n")
	if rows == 0 {
		b.WriteString(PlaceholderStyle.Render("The service returned an empty schedule."))
	} else {
		b.WriteString(t.View())
	}
	b.WriteString("\n")
	b.WriteString(ModalNoteStyle.Render(previewNote))

	modal := ModalStyle.Render(b.String())
	if width <= 0 {
		return modal
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, modal)
}
