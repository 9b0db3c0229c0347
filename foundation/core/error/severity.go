// File: severity.go
// Title: Error Severity Levels
// Description: Severity levels used to pick the log level of an error.
// Version: v0.2.0
// Created: 2026-10-15

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow is a user-correctable problem (too short, empty input)
	SeverityLow Severity = iota

	// SeverityMedium affects one action but the client keeps working
	SeverityMedium

	// SeverityHigh makes a whole feature unusable (no microphone, bad config)
	SeverityHigh

	// SeverityCritical makes the client unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should be shown prominently
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines the default severity for a code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical
	case CodePermissionDenied, CodeDeviceUnavailable, CodeUnsupportedFormat,
		CodeConfigError, CodeInvalidConfig:
		return SeverityHigh
	case CodeHTTPError, CodeNetworkError, CodeInvalidReply, CodeTimeout:
		return SeverityMedium
	case CodeUnexpectedStop, CodeTooShort, CodeEmptyInput, CodeInvalidInput, CodeBusy:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
