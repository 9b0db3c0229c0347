// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, codes and severity.
// Version: v0.2.0
// Created: 2026-10-15

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	msg := "microphone access refused"
	err := New(msg)

	if err == nil {
		t.Fatal("New() returned nil")
	}
	if err.Error() != msg {
		t.Errorf("Error() = %q, want %q", err.Error(), msg)
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should not be zero")
	}
	if len(err.StackTrace()) == 0 {
		t.Error("StackTrace() should not be empty")
	}
}

func TestNewf(t *testing.T) {
	err := Newf("HTTP error: status %d", 500)
	if err.Error() != "HTTP error: status 500" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "context",
			wantNil: true,
		},
		{
			name:    "wrap standard error",
			err:     errors.New("connection refused"),
			message: "upload failed",
			wantMsg: "upload failed: connection refused",
		},
		{
			name:    "wrap coded error",
			err:     New("too short").WithCode(CodeTooShort),
			message: "validate",
			wantMsg: "validate: too short",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, tt.message)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Wrap() = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got.Error(), tt.wantMsg)
			}
			if !errors.Is(got, tt.err) {
				t.Error("errors.Is should find the wrapped error")
			}
		})
	}
}

func TestWrap_InheritsCodeAndDetails(t *testing.T) {
	inner := New("status 500").
		WithCode(CodeHTTPError).
		WithDetail("status", 500)
	outer := Wrap(inner, "Error uploading audio")

	if outer.Code() != CodeHTTPError {
		t.Errorf("Code() = %v, want %v", outer.Code(), CodeHTTPError)
	}
	if v, ok := outer.Detail("status"); !ok || v != 500 {
		t.Errorf("Detail(status) = %v, %v", v, ok)
	}
	if outer.Message() != "Error uploading audio" {
		t.Errorf("Message() = %q", outer.Message())
	}
}

func TestWithCode_SetsSeverity(t *testing.T) {
	err := New("no device").WithCode(CodeDeviceUnavailable)
	if err.Severity() != SeverityHigh {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityHigh)
	}

	explicit := New("no device").WithSeverity(SeverityLow).WithCode(CodeDeviceUnavailable)
	if explicit.Severity() != SeverityLow {
		t.Errorf("explicit severity overridden: %v", explicit.Severity())
	}
}

func TestHasCode(t *testing.T) {
	base := New("refused").WithCode(CodePermissionDenied)
	wrapped := fmt.Errorf("start: %w", Wrap(base, "open microphone").WithCode(CodeDeviceUnavailable))

	if !HasCode(wrapped, CodePermissionDenied) {
		t.Error("HasCode should find code deeper in the chain")
	}
	if !HasCode(wrapped, CodeDeviceUnavailable) {
		t.Error("HasCode should find the outer code")
	}
	if HasCode(wrapped, CodeTooShort) {
		t.Error("HasCode found a code that is not in the chain")
	}
	if HasCode(errors.New("plain"), CodeUnknown) {
		t.Error("HasCode on a plain error should be false")
	}
}

func TestGetCodeAndSeverity(t *testing.T) {
	if got := GetCode(errors.New("plain")); got != CodeUnknown {
		t.Errorf("GetCode(plain) = %v", got)
	}
	err := New("empty").WithCode(CodeEmptyInput)
	if got := GetCode(err); got != CodeEmptyInput {
		t.Errorf("GetCode() = %v", got)
	}
	if got := GetSeverity(err); got != SeverityLow {
		t.Errorf("GetSeverity() = %v", got)
	}
}

func TestString(t *testing.T) {
	err := New("upload failed").
		WithCode(CodeHTTPError).
		WithOperation("api.transcribe").
		WithDetail("status", 502).
		WithDetail("endpoint", "/record")

	s := err.String()
	for _, want := range []string{"upload failed", "HTTP_ERROR", "api.transcribe", "endpoint=/record, status=502"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	err := Wrap(errors.New("timeout"), "network").WithCode(CodeNetworkError)

	data, mErr := json.Marshal(err)
	if mErr != nil {
		t.Fatalf("Marshal failed: %v", mErr)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["code"] != "NETWORK_ERROR" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["cause"] != "timeout" {
		t.Errorf("cause = %v", decoded["cause"])
	}
}
