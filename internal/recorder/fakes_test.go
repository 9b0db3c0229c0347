package recorder

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/triagesys/trec/internal/api"
	"github.com/triagesys/trec/internal/capture"
)

type fakeStream struct {
	samples chan []float32
	closes  int32
}

func newFakeStream() *fakeStream {
	return &fakeStream{samples: make(chan []float32)}
}

func (s *fakeStream) Samples() <-chan []float32 { return s.samples }
func (s *fakeStream) Err() error                { return nil }
func (s *fakeStream) SampleRate() int           { return 48000 }
func (s *fakeStream) Channels() int             { return 1 }

func (s *fakeStream) Close() error {
	atomic.AddInt32(&s.closes, 1)
	return nil
}

func (s *fakeStream) Closes() int {
	return int(atomic.LoadInt32(&s.closes))
}

type fakeMic struct {
	err     error
	mu      sync.Mutex
	streams []*fakeStream
}

func (m *fakeMic) Open(ctx context.Context) (capture.Stream, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := newFakeStream()
	m.mu.Lock()
	m.streams = append(m.streams, s)
	m.mu.Unlock()
	return s, nil
}

func (m *fakeMic) last() *fakeStream {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streams[len(m.streams)-1]
}

// fakeRecorder delivers fragments on demand and calls OnStop from its own
// goroutine, once.
type fakeRecorder struct {
	format   capture.Format
	handlers capture.Handlers

	stops    int32
	stopOnce sync.Once
	stopped  chan struct{}
}

func (r *fakeRecorder) Start() error           { return nil }
func (r *fakeRecorder) Format() capture.Format { return r.format }

func (r *fakeRecorder) Stop() {
	atomic.AddInt32(&r.stops, 1)
	r.finish(nil)
}

func (r *fakeRecorder) Stops() int {
	return int(atomic.LoadInt32(&r.stops))
}

// emit delivers fragments synchronously, in order
func (r *fakeRecorder) emit(fragments ...[]byte) {
	for _, f := range fragments {
		r.handlers.OnData(f)
	}
}

// fail ends the recording without a user stop
func (r *fakeRecorder) fail(err error) {
	r.finish(err)
}

func (r *fakeRecorder) finish(reason error) {
	r.stopOnce.Do(func() {
		go func() {
			r.handlers.OnStop(reason)
			close(r.stopped)
		}()
	})
}

type fakeFactory struct {
	format capture.Format
	err    error

	mu        sync.Mutex
	recorders []*fakeRecorder
}

func (f *fakeFactory) NewRecorder(ctx context.Context, stream capture.Stream, h capture.Handlers) (capture.Recorder, error) {
	if f.err != nil {
		return nil, f.err
	}
	format := f.format
	if format.IsZero() {
		format = capture.FormatOggOpus
	}
	r := &fakeRecorder{format: format, handlers: h, stopped: make(chan struct{})}
	f.mu.Lock()
	f.recorders = append(f.recorders, r)
	f.mu.Unlock()
	return r, nil
}

func (f *fakeFactory) last() *fakeRecorder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recorders[len(f.recorders)-1]
}

func (f *fakeFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recorders)
}

type fakeService struct {
	transcript string
	uploadErr  error
	schedule   api.Schedule
	optimErr   error

	// when set, Optimize blocks until it is closed
	block chan struct{}

	mu        sync.Mutex
	uploads   []capture.Audio
	optimizes []string
}

func (s *fakeService) Transcribe(ctx context.Context, audio capture.Audio) (string, error) {
	s.mu.Lock()
	s.uploads = append(s.uploads, audio)
	s.mu.Unlock()
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return s.transcript, nil
}

func (s *fakeService) Optimize(ctx context.Context, transcript string) (api.Schedule, error) {
	s.mu.Lock()
	s.optimizes = append(s.optimizes, transcript)
	s.mu.Unlock()
	if s.block != nil {
		<-s.block
	}
	if s.optimErr != nil {
		return nil, s.optimErr
	}
	return s.schedule, nil
}

func (s *fakeService) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

func (s *fakeService) optimizeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.optimizes)
}

type harness struct {
	mic     *fakeMic
	factory *fakeFactory
	service *fakeService
	ctrl    *Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		mic:     &fakeMic{},
		factory: &fakeFactory{},
		service: &fakeService{transcript: "turn left"},
	}
	h.ctrl = NewController(Options{
		Microphone:  h.mic,
		Recorders:   h.factory,
		Service:     h.service,
		MinBytes:    DefaultMinBytes,
		PlaybackDir: t.TempDir(),
	})
	t.Cleanup(func() { h.ctrl.Close() })
	return h
}

// waitFor polls until cond holds for the controller snapshot
func waitFor(t *testing.T, c *Controller, what string, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := c.Snapshot()
		if cond(snap) {
			return snap
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s; last snapshot %+v", what, snap)
		}
		time.Sleep(time.Millisecond)
	}
}

func idle(s Snapshot) bool { return s.State == StateIdle }

func waitStopped(t *testing.T, r *fakeRecorder) {
	t.Helper()
	select {
	case <-r.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("recorder OnStop did not return")
	}
}

func bytesOf(n int, b byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
