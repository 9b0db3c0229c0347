// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     recorder
// Description: Capture pipeline state machine
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package recorder

import (
	"sync"
	"time"
)

// State represents the current state of the capture pipeline
type State int

const (
	// StateIdle - Ready to record
	StateIdle State = iota

	// StateRequesting - Waiting for the microphone
	StateRequesting

	// StateRecording - Fragments are being collected
	StateRecording

	// StateStopping - Stop requested, waiting for the recorder to flush
	StateStopping

	// StateRejected - Recording discarded by the validation gate
	StateRejected

	// StateFinalized - Recording accepted, about to upload
	StateFinalized

	// StateUploading - Waiting for the transcript
	StateUploading
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Ready"
	case StateRequesting:
		return "Opening microphone..."
	case StateRecording:
		return "Recording..."
	case StateStopping:
		return "Stopping..."
	case StateRejected:
		return "Rejected"
	case StateFinalized:
		return "Finalized"
	case StateUploading:
		return "Transcribing..."
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the state
func (s State) Icon() string {
	switch s {
	case StateIdle:
		return "⏸"
	case StateRequesting:
		return "🎙"
	case StateRecording:
		return "🔴"
	case StateStopping:
		return "⏹"
	case StateRejected:
		return "⚠"
	case StateFinalized:
		return "✔"
	case StateUploading:
		return "⬆"
	default:
		return "?"
	}
}

// Busy reports whether the pipeline is doing something a new recording
// would have to wait for
func (s State) Busy() bool {
	return s != StateIdle
}

// validTransitions is the complete transition table
var validTransitions = map[State][]State{
	StateIdle:       {StateRequesting},
	StateRequesting: {StateRecording, StateIdle},
	StateRecording:  {StateStopping, StateRejected},
	StateStopping:   {StateFinalized, StateRejected},
	StateRejected:   {StateIdle},
	StateFinalized:  {StateUploading, StateIdle},
	StateUploading:  {StateIdle},
}

// StateMachine manages state transitions
type StateMachine struct {
	mu            sync.RWMutex
	currentState  State
	previousState State
	stateTime     time.Time
	listeners     []StateChangeListener
}

// StateChangeListener is called when state changes
type StateChangeListener func(oldState, newState State)

// NewStateMachine creates a new state machine
func NewStateMachine() *StateMachine {
	return &StateMachine{
		currentState: StateIdle,
		stateTime:    time.Now(),
	}
}

// Current returns the current state
func (sm *StateMachine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// Previous returns the previous state
func (sm *StateMachine) Previous() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.previousState
}

// StateTime returns when the current state was entered
func (sm *StateMachine) StateTime() time.Time {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.stateTime
}

// Transition changes to a new state. Invalid transitions are refused.
func (sm *StateMachine) Transition(newState State) bool {
	sm.mu.Lock()
	oldState := sm.currentState

	if !isValidTransition(oldState, newState) {
		sm.mu.Unlock()
		return false
	}

	sm.previousState = oldState
	sm.currentState = newState
	sm.stateTime = time.Now()
	listeners := sm.listeners
	sm.mu.Unlock()

	for _, listener := range listeners {
		listener(oldState, newState)
	}
	return true
}

// AddListener adds a state change listener
func (sm *StateMachine) AddListener(listener StateChangeListener) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.listeners = append(sm.listeners, listener)
}

func isValidTransition(from, to State) bool {
	for _, valid := range validTransitions[from] {
		if valid == to {
			return true
		}
	}
	return false
}
