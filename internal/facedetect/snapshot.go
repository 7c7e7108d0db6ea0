package facedetect

import (
	"errors"
	"sync"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
)

// ErrStreamStopped is returned by a snapshot stream after StopTracks.
var ErrStreamStopped = errors.New("snapshot stream stopped")

// Grabber returns the next encoded still (JPEG or PNG) from a capture
// backend that delivers snapshots instead of raw planes.
type Grabber func() ([]byte, error)

// SnapshotStream adapts a snapshot-delivering backend into the stream
// shape the media manager hands out: each Frame call grabs one encoded
// still and decodes it to a luma plane. Grab or decode failures surface
// as errors and the detector skips that sample.
type SnapshotStream struct {
	grab Grabber

	mu      sync.Mutex
	muted   bool
	stopped bool
}

// NewSnapshotStream wraps a grabber. The stream starts unmuted.
func NewSnapshotStream(grab Grabber) *SnapshotStream {
	return &SnapshotStream{grab: grab}
}

func (s *SnapshotStream) Frame() (*model.Frame, error) {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return nil, ErrStreamStopped
	}
	data, err := s.grab()
	if err != nil {
		return nil, err
	}
	return DecodeSnapshot(data)
}

func (s *SnapshotStream) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// SetMuted flips the simulated audio track state.
func (s *SnapshotStream) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
}

func (s *SnapshotStream) StopTracks() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}
