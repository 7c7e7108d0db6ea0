package facedetect

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
)

type fakeSource struct {
	mu    sync.Mutex
	frame *model.Frame
	err   error
}

func (s *fakeSource) Frame() (*model.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame, s.err
}

func (s *fakeSource) set(f *model.Frame, err error) {
	s.mu.Lock()
	s.frame = f
	s.err = err
	s.mu.Unlock()
}

type staticClassifier struct{ present bool }

func (c *staticClassifier) Classify(f *model.Frame) (bool, error) { return c.present, nil }

func activeStatus() model.SessionStatus { return model.StatusActive }

func collect(t *testing.T) (func(model.Candidate), func() []model.Candidate) {
	t.Helper()
	var mu sync.Mutex
	var got []model.Candidate
	emit := func(c model.Candidate) {
		mu.Lock()
		got = append(got, c)
		mu.Unlock()
	}
	snapshot := func() []model.Candidate {
		mu.Lock()
		defer mu.Unlock()
		return append([]model.Candidate(nil), got...)
	}
	return emit, snapshot
}

func TestRepeatedAbsenceEmitsOnce(t *testing.T) {
	src := &fakeSource{frame: frame(30, 30, 100, 160)}
	cls := &staticClassifier{present: false}
	emit, got := collect(t)

	d := New(src, cls, time.Second, activeStatus, emit, nil)
	for i := 0; i < 10; i++ {
		d.Sample()
	}

	events := got()
	require.Len(t, events, 1, "ten absent reads must produce exactly one event")
	assert.Equal(t, model.EventFaceNotDetected, events[0].Type)
	assert.Equal(t, model.SeverityHigh, events[0].Severity)
	assert.False(t, d.Presence().Present)
}

func TestRegainedPresenceEmitsNothing(t *testing.T) {
	src := &fakeSource{frame: frame(30, 30, 100, 160)}
	cls := &staticClassifier{present: false}
	emit, got := collect(t)

	d := New(src, cls, time.Second, activeStatus, emit, nil)
	d.Sample() // absent -> one event
	cls.present = true
	d.Sample() // regained -> state change, no event
	cls.present = false
	d.Sample() // lost again -> second event

	require.Len(t, got(), 2)
	assert.True(t, d.Presence().Present == false)
}

func TestSamplingFailureIsNoOp(t *testing.T) {
	src := &fakeSource{err: errors.New("frame not ready")}
	emit, got := collect(t)

	d := New(src, &staticClassifier{present: false}, time.Second, activeStatus, emit, nil)
	d.Sample()

	assert.Empty(t, got(), "a failed sample must never become a violation")
	assert.True(t, d.Presence().Present, "debounce state must be untouched")
}

func TestZeroDimensionFrameIsNoOp(t *testing.T) {
	src := &fakeSource{frame: &model.Frame{}}
	emit, got := collect(t)

	d := New(src, &staticClassifier{present: false}, time.Second, activeStatus, emit, nil)
	d.Sample()

	assert.Empty(t, got())
}

func TestNoEmissionWhenNotActive(t *testing.T) {
	src := &fakeSource{frame: frame(30, 30, 100, 160)}
	emit, got := collect(t)
	status := func() model.SessionStatus { return model.StatusPaused }

	d := New(src, &staticClassifier{present: false}, time.Second, status, emit, nil)
	d.Sample()

	assert.Empty(t, got())
	// The debounce state still tracks reality while paused.
	assert.False(t, d.Presence().Present)
}

func TestStopIsIdempotent(t *testing.T) {
	src := &fakeSource{frame: frame(30, 30, 100, 160)}
	emit, _ := collect(t)

	d := New(src, &staticClassifier{present: true}, 10*time.Millisecond, activeStatus, emit, nil)
	d.Start()
	d.Start() // second Start is a no-op
	time.Sleep(30 * time.Millisecond)
	d.Stop()
	d.Stop() // must not panic or hang
}
