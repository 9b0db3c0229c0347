// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     recorder
// Description: Capture controller orchestrating record, upload and optimize
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package recorder

import (
	"context"
	"sync"
	"time"

	trecerr "github.com/triagesys/trec/foundation/core/error"
	"github.com/triagesys/trec/internal/api"
	"github.com/triagesys/trec/internal/capture"
	"github.com/triagesys/trec/pkg/core/logging"
)

// Service is the remote side of the controller. *api.Client implements it.
type Service interface {
	Transcribe(ctx context.Context, audio capture.Audio) (string, error)
	Optimize(ctx context.Context, transcript string) (api.Schedule, error)
}

// Options configures a Controller
type Options struct {
	Microphone capture.Microphone
	Recorders  capture.RecorderFactory
	Service    Service

	// MinBytes is the validation threshold. Zero accepts recordings of any
	// size, a negative value selects DefaultMinBytes.
	MinBytes int

	// PlaybackDir holds playback files, the system temp dir when empty
	PlaybackDir string
}

// Snapshot is a consistent copy of the controller state
type Snapshot struct {
	// Seq increases with every change; older snapshots can be dropped
	Seq uint64

	State          State
	SessionID      string
	Format         capture.Format
	RecordingSince time.Time
	BufferedBytes  int

	Transcript     string
	Schedule       api.Schedule
	PreviewVisible bool
	Optimizing     bool

	// ErrorMessage is the single message shown to the user
	ErrorMessage string
	ErrorKind    Kind

	PlaybackPath string
}

// CanStart reports whether StartCapture would be accepted
func (s Snapshot) CanStart() bool {
	return s.State == StateIdle
}

// CanStop reports whether StopCapture would have an effect
func (s Snapshot) CanStop() bool {
	return s.State == StateRecording
}

// CanClear reports whether there is a transcript to clear
func (s Snapshot) CanClear() bool {
	return s.Transcript != ""
}

// CanOptimize reports whether an optimization can be requested
func (s Snapshot) CanOptimize() bool {
	return !s.Optimizing && s.Transcript != ""
}

// Listener receives a snapshot after every change
type Listener func(Snapshot)

// Controller owns the single recording session, the transcript and the
// schedule. Its methods are safe for concurrent use.
type Controller struct {
	mic       capture.Microphone
	recorders capture.RecorderFactory
	service   Service
	gate      Gate
	dir       string
	logger    *logging.Logger

	// lifetime of recorders; uploads and optimizations are not cancelled
	ctx    context.Context
	cancel context.CancelFunc

	mu             sync.Mutex
	sm             *StateMachine
	session        *Session
	transcript     string
	schedule       api.Schedule
	previewVisible bool
	optimizing     bool
	errMsg         string
	errKind        Kind
	seq            uint64
	closed         bool
	listeners      []Listener
}

// NewController creates a controller
func NewController(opts Options) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		mic:       opts.Microphone,
		recorders: opts.Recorders,
		service:   opts.Service,
		gate:      NewGate(opts.MinBytes),
		dir:       opts.PlaybackDir,
		logger:    logging.New("recorder"),
		ctx:       ctx,
		cancel:    cancel,
		sm:        NewStateMachine(),
	}

	c.sm.AddListener(func(oldState, newState State) {
		c.logger.Debug("State changed", "from", oldState.String(), "to", newState.String())
	})

	return c
}

// AddListener registers a listener for state changes
func (c *Controller) AddListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Seq:            c.seq,
		State:          c.sm.Current(),
		Transcript:     c.transcript,
		Schedule:       c.schedule,
		PreviewVisible: c.previewVisible,
		Optimizing:     c.optimizing,
		ErrorMessage:   c.errMsg,
		ErrorKind:      c.errKind,
	}
	if s := c.session; s != nil {
		snap.SessionID = s.ID
		snap.Format = s.format
		snap.RecordingSince = s.StartedAt
		snap.BufferedBytes = s.Buffer.Size()
		snap.PlaybackPath = s.Playback().Path()
	}
	return snap
}

// notify sends the current snapshot to all listeners. Must be called
// without c.mu held.
func (c *Controller) notify() {
	c.mu.Lock()
	c.seq++
	snap := c.snapshotLocked()
	listeners := c.listeners
	c.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// setErrorLocked replaces the current error message
func (c *Controller) setErrorLocked(err *trecerr.Error) {
	c.errMsg = err.Error()
	c.errKind = KindOf(err)
}

func (c *Controller) clearErrorLocked() {
	c.errMsg = ""
	c.errKind = KindNone
}

// StartCapture opens the microphone and starts a new recording. The
// previous transcript, error and playback reference are discarded.
func (c *Controller) StartCapture(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return trecerr.New("controller closed").WithCode(trecerr.CodeInternal)
	}
	if !c.sm.Transition(StateRequesting) {
		state := c.sm.Current()
		c.mu.Unlock()
		return errBusy("recording").WithDetail("state", state.String())
	}
	prev := c.session
	c.session = nil
	c.transcript = ""
	c.clearErrorLocked()
	c.mu.Unlock()

	if prev != nil {
		if err := prev.Release(); err != nil {
			c.logger.Warn("Failed to release previous session", "session", prev.ID, "error", err)
		}
	}
	c.notify()

	stream, err := c.mic.Open(ctx)
	if err != nil {
		return c.failStart(nil, errMicrophone(err))
	}

	session := newSession(stream)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		session.ReleaseStream()
		return trecerr.New("controller closed").WithCode(trecerr.CodeInternal)
	}
	c.session = session
	c.mu.Unlock()

	rec, err := c.recorders.NewRecorder(c.ctx, stream, capture.Handlers{
		OnData: func(fragment []byte) { c.onData(session, fragment) },
		OnStop: func(reason error) { c.onStop(session, reason) },
	})
	if err != nil {
		return c.failStart(session, errMicrophone(err))
	}

	c.mu.Lock()
	session.recorder = rec
	session.format = rec.Format()
	c.mu.Unlock()

	if err := rec.Start(); err != nil {
		return c.failStart(session, errMicrophone(err))
	}

	c.mu.Lock()
	if c.session != session {
		c.mu.Unlock()
		rec.Stop()
		return trecerr.New("controller closed").WithCode(trecerr.CodeInternal)
	}
	c.sm.Transition(StateRecording)
	c.mu.Unlock()
	c.notify()

	c.logger.Info("Recording started", "session", session.ID, "format", rec.Format().MIMEType)
	return nil
}

// failStart returns from Requesting to Idle with err shown
func (c *Controller) failStart(session *Session, err *trecerr.Error) error {
	if session != nil {
		session.ReleaseStream()
	}

	c.mu.Lock()
	if session != nil && c.session == session {
		c.session = nil
	}
	c.sm.Transition(StateIdle)
	c.setErrorLocked(err)
	c.mu.Unlock()
	c.notify()

	c.logger.Error("Failed to start recording", "error", err)
	return err
}

// StopCapture ends the recording. It has no effect unless recording.
func (c *Controller) StopCapture() {
	c.mu.Lock()
	if c.sm.Current() != StateRecording || c.session == nil {
		c.mu.Unlock()
		return
	}
	session := c.session
	session.MarkManualStop()
	c.sm.Transition(StateStopping)
	c.mu.Unlock()
	c.notify()

	c.logger.Debug("Stop requested", "session", session.ID)
	session.recorder.Stop()
}

func (c *Controller) onData(session *Session, fragment []byte) {
	if err := session.Buffer.Append(fragment); err != nil {
		c.logger.Warn("Fragment dropped", "session", session.ID, "error", err)
	}
}

// onStop runs once per session after its last fragment. It finalizes the
// recording, applies the gate and uploads accepted audio.
func (c *Controller) onStop(session *Session, reason error) {
	if err := session.ReleaseStream(); err != nil {
		c.logger.Warn("Failed to release microphone", "session", session.ID, "error", err)
	}

	data, err := session.Buffer.Take()
	if err != nil {
		c.logger.Error("Recording buffer unavailable", "session", session.ID, "error", err)
	}
	audio := capture.Audio{Data: data, Format: session.format}

	c.mu.Lock()
	if c.session != session || c.closed {
		c.mu.Unlock()
		c.logger.Debug("Discarding superseded recording", "session", session.ID)
		return
	}

	if gateErr := c.gate.Check(audio, session.ManualStop(), reason); gateErr != nil {
		c.sm.Transition(StateRejected)
		c.setErrorLocked(gateErr)
		c.sm.Transition(StateIdle)
		c.mu.Unlock()
		c.notify()

		c.logger.Warn("Recording rejected", "session", session.ID, "bytes", audio.Len(), "error", gateErr)
		return
	}

	c.sm.Transition(StateFinalized)
	if ref, err := NewPlaybackRef(c.dir, session.ID, audio); err != nil {
		c.logger.Warn("Playback unavailable", "session", session.ID, "error", err)
	} else {
		session.setPlayback(ref)
	}
	c.sm.Transition(StateUploading)
	c.mu.Unlock()
	c.notify()

	c.logger.Info("Uploading recording", "session", session.ID, "bytes", audio.Len(), "format", audio.Format.MIMEType)

	transcript, err := c.service.Transcribe(context.Background(), audio)

	c.mu.Lock()
	if err != nil {
		c.setErrorLocked(errUpload(err))
	} else if c.session == session {
		c.transcript = transcript
	}
	c.sm.Transition(StateIdle)
	c.mu.Unlock()
	c.notify()

	if err != nil {
		c.logger.Error("Upload failed", "session", session.ID, "error", err)
	}
}

// Optimize submits the transcript and shows the returned schedule. An
// empty transcript fails without a request; a call while another is in
// flight is refused.
func (c *Controller) Optimize(ctx context.Context) (api.Schedule, error) {
	c.mu.Lock()
	if c.optimizing {
		c.mu.Unlock()
		return nil, errBusy("optimization")
	}
	if c.transcript == "" {
		err := errEmptyInput()
		c.setErrorLocked(err)
		c.mu.Unlock()
		c.notify()
		return nil, err
	}
	transcript := c.transcript
	c.optimizing = true
	c.clearErrorLocked()
	c.mu.Unlock()
	c.notify()

	schedule, err := c.service.Optimize(ctx, transcript)

	c.mu.Lock()
	c.optimizing = false
	var result error
	if err != nil {
		e := errOptimize(err)
		c.setErrorLocked(e)
		result = e
	} else {
		c.schedule = schedule
		c.previewVisible = true
	}
	c.mu.Unlock()
	c.notify()

	if result != nil {
		c.logger.Error("Optimization failed", "error", err)
		return nil, result
	}
	c.logger.Info("Schedule ready", "rows", len(schedule))
	return schedule, nil
}

// ClearTranscript discards the transcript, the schedule and any error
func (c *Controller) ClearTranscript() {
	c.mu.Lock()
	c.transcript = ""
	c.schedule = nil
	c.previewVisible = false
	c.clearErrorLocked()
	c.mu.Unlock()
	c.notify()
}

// ClosePreview hides the schedule preview; the schedule is kept
func (c *Controller) ClosePreview() {
	c.mu.Lock()
	c.previewVisible = false
	c.mu.Unlock()
	c.notify()
}

// ShowPreview shows the stored schedule again
func (c *Controller) ShowPreview() bool {
	c.mu.Lock()
	ok := c.schedule != nil
	if ok {
		c.previewVisible = true
	}
	c.mu.Unlock()
	if ok {
		c.notify()
	}
	return ok
}

// Close stops any recording and releases the session. Pending uploads
// finish in the background and their result is dropped.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	session := c.session
	c.session = nil
	var rec capture.Recorder
	if session != nil {
		rec = session.recorder
	}
	c.mu.Unlock()

	c.cancel()

	if session == nil {
		return nil
	}
	if rec != nil {
		rec.Stop()
	}
	return session.Release()
}
