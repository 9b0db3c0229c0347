// File: codes.go
// Title: Error Codes
// Description: Error codes shared by the trec packages. Generic codes cover
//              configuration and input problems; the capture and remote
//              codes name the failure classes of the recorder pipeline.
// Version: v0.2.0
// Created: 2026-10-15

package error

// Code is a machine readable error classification
type Code string

const (
	// Generic
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Capture device
	CodePermissionDenied  Code = "PERMISSION_DENIED"
	CodeDeviceUnavailable Code = "DEVICE_UNAVAILABLE"
	CodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"

	// Recording validation
	CodeUnexpectedStop Code = "UNEXPECTED_STOP"
	CodeTooShort       Code = "TOO_SHORT"
	CodeEmptyInput     Code = "EMPTY_INPUT"

	// Remote services
	CodeHTTPError    Code = "HTTP_ERROR"
	CodeNetworkError Code = "NETWORK_ERROR"
	CodeInvalidReply Code = "INVALID_REPLY"
	CodeBusy         Code = "BUSY"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeInvalidInput, CodeTimeout,
		CodeConfigError, CodeInvalidConfig,
		CodePermissionDenied, CodeDeviceUnavailable, CodeUnsupportedFormat,
		CodeUnexpectedStop, CodeTooShort, CodeEmptyInput,
		CodeHTTPError, CodeNetworkError, CodeInvalidReply, CodeBusy:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodePermissionDenied, CodeDeviceUnavailable, CodeUnsupportedFormat:
		return "device"
	case CodeUnexpectedStop, CodeTooShort, CodeEmptyInput:
		return "validation"
	case CodeHTTPError, CodeNetworkError, CodeInvalidReply, CodeBusy:
		return "remote"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	default:
		return "generic"
	}
}
