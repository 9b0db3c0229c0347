// Package error provides structured error handling for trec.
//
// Package: error
// Title: trec Error Handling
// Description: Coded errors with severity, details and wrapping. The codes
//              describe the failure classes of a capture/upload client:
//              device access, recording validation and remote calls.
// Version: v0.2.0
// Created: 2026-10-15
//
// Usage:
//
//	import trecerr "github.com/triagesys/trec/foundation/core/error"
//
//	err := trecerr.New("microphone access refused").
//		WithCode(trecerr.CodePermissionDenied).
//		WithDetail("device", "default")
//
//	wrapped := trecerr.Wrap(err, "start capture").
//		WithOperation("capture.start")
//
//	if trecerr.HasCode(wrapped, trecerr.CodePermissionDenied) {
//		// ask the user to grant microphone access
//	}
package error
