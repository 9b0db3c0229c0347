// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     recorder
// Description: Error taxonomy with user-facing messages
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package recorder

import (
	"errors"

	trecerr "github.com/triagesys/trec/foundation/core/error"
	"github.com/triagesys/trec/internal/api"
	"github.com/triagesys/trec/internal/capture"
)

// Kind classifies controller errors
type Kind int

const (
	KindNone Kind = iota
	KindPermissionDenied
	KindDeviceUnavailable
	KindUnsupportedFormat
	KindUnexpectedStop
	KindTooShort
	KindHTTPError
	KindNetworkError
	KindInvalidReply
	KindEmptyInput
	KindBusy
	KindUnknown
)

var kindCodes = map[Kind]trecerr.Code{
	KindPermissionDenied:  trecerr.CodePermissionDenied,
	KindDeviceUnavailable: trecerr.CodeDeviceUnavailable,
	KindUnsupportedFormat: trecerr.CodeUnsupportedFormat,
	KindUnexpectedStop:    trecerr.CodeUnexpectedStop,
	KindTooShort:          trecerr.CodeTooShort,
	KindHTTPError:         trecerr.CodeHTTPError,
	KindNetworkError:      trecerr.CodeNetworkError,
	KindInvalidReply:      trecerr.CodeInvalidReply,
	KindEmptyInput:        trecerr.CodeEmptyInput,
	KindBusy:              trecerr.CodeBusy,
}

// Code returns the error code of the kind
func (k Kind) Code() trecerr.Code {
	if c, ok := kindCodes[k]; ok {
		return c
	}
	return trecerr.CodeUnknown
}

func (k Kind) String() string {
	if k == KindNone {
		return "none"
	}
	return k.Code().String()
}

// KindOf returns the kind of err, KindNone for nil
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	code := trecerr.GetCode(err)
	for k, c := range kindCodes {
		if c == code {
			return k
		}
	}
	return KindUnknown
}

// User-facing messages
const (
	msgMicrophone     = "Error accessing microphone"
	msgUnexpectedStop = "Recording ended unexpectedly. Try again."
	msgTooShort       = "Recording was too short. Try again."
	msgUpload         = "Error uploading audio"
	msgOptimize       = "Optimization failed"
	msgEmptyInput     = "No transcription found!"
)

func errMicrophone(err error) *trecerr.Error {
	kind := KindDeviceUnavailable
	switch {
	case errors.Is(err, capture.ErrAccess):
		kind = KindPermissionDenied
	case errors.Is(err, capture.ErrUnsupportedFormat):
		kind = KindUnsupportedFormat
	}
	return trecerr.Wrap(err, msgMicrophone).
		WithCode(kind.Code()).
		WithOperation("start")
}

func errUnexpectedStop(reason error) *trecerr.Error {
	e := trecerr.New(msgUnexpectedStop).
		WithCode(KindUnexpectedStop.Code()).
		WithOperation("stop")
	if reason != nil {
		e.WithDetail("reason", reason.Error())
	}
	return e
}

func errTooShort(size, min int) *trecerr.Error {
	return trecerr.New(msgTooShort).
		WithCode(KindTooShort.Code()).
		WithOperation("stop").
		WithDetail("bytes", size).
		WithDetail("min_bytes", min)
}

func errUpload(err error) *trecerr.Error {
	return trecerr.Wrap(err, msgUpload).
		WithCode(remoteKind(err).Code()).
		WithOperation("upload")
}

func errOptimize(err error) *trecerr.Error {
	return trecerr.Wrap(err, msgOptimize).
		WithCode(remoteKind(err).Code()).
		WithOperation("optimize")
}

func errEmptyInput() *trecerr.Error {
	return trecerr.New(msgEmptyInput).
		WithCode(KindEmptyInput.Code()).
		WithOperation("optimize")
}

func errBusy(op string) *trecerr.Error {
	return trecerr.New(op + " already in progress").
		WithCode(KindBusy.Code()).
		WithOperation(op)
}

// remoteKind classifies client errors; anything without a reply is a
// network error
func remoteKind(err error) Kind {
	var httpErr *api.HTTPError
	var replyErr *api.ReplyError
	switch {
	case errors.As(err, &httpErr):
		return KindHTTPError
	case errors.As(err, &replyErr):
		return KindInvalidReply
	case errors.Is(err, api.ErrEmptyTranscript):
		return KindEmptyInput
	default:
		return KindNetworkError
	}
}
