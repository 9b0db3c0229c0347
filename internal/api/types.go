// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     api
// Description: Request and response types of the transcription service
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package api

import (
	"bytes"
	"encoding/json"
)

// TranscribeResponse is the reply of POST /record
type TranscribeResponse struct {
	Transcription string `json:"transcription"`
}

// OptimizeRequest is the body of POST /optimize
type OptimizeRequest struct {
	Transcription string `json:"transcription"`
}

// OptimizeResponse is the reply of POST /optimize
type OptimizeResponse struct {
	Schedule Schedule `json:"schedule"`
}

// Schedule is the ordered row set returned by the optimizer
type Schedule []ScheduleRow

// ScheduleRow is one scan assignment
type ScheduleRow struct {
	ScanID      Cell `json:"scan_id"`
	ScanType    Cell `json:"scan_type"`
	Duration    Cell `json:"duration"`
	Priority    Cell `json:"priority"`
	PatientID   Cell `json:"patient_id"`
	CheckInDate Cell `json:"check_in_date"`
	CheckInTime Cell `json:"check_in_time"`
	Machine     Cell `json:"machine"`
}

// Columns are the display headers, in row order
var Columns = []string{
	"Scan ID",
	"Scan Type",
	"Duration",
	"Priority",
	"Patient ID",
	"Check In Date",
	"Check In Time",
	"Unit",
}

// Values returns the displayable cell values in column order
func (r ScheduleRow) Values() []string {
	return []string{
		r.ScanID.String(),
		r.ScanType.String(),
		r.Duration.String(),
		r.Priority.String(),
		r.PatientID.String(),
		r.CheckInDate.String(),
		r.CheckInTime.String(),
		r.Machine.String(),
	}
}

// Cell is an opaque scalar from the optimizer. Strings, numbers and
// booleans are kept as received; null and missing values display empty.
type Cell struct {
	raw json.RawMessage
}

// NewCell creates a cell from any JSON-encodable value
func NewCell(v interface{}) Cell {
	b, err := json.Marshal(v)
	if err != nil {
		return Cell{}
	}
	return Cell{raw: b}
}

// UnmarshalJSON keeps the raw value
func (c *Cell) UnmarshalJSON(b []byte) error {
	c.raw = append(c.raw[:0], b...)
	return nil
}

// MarshalJSON returns the raw value, null for an empty cell
func (c Cell) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return []byte("null"), nil
	}
	return c.raw, nil
}

// IsNull reports whether the cell is null or missing
func (c Cell) IsNull() bool {
	return len(c.raw) == 0 || bytes.Equal(c.raw, []byte("null"))
}

// String renders the cell for display. Strings are unquoted, numbers keep
// their literal form.
func (c Cell) String() string {
	if c.IsNull() {
		return ""
	}
	if c.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(c.raw, &s); err == nil {
			return s
		}
	}
	return string(c.raw)
}
