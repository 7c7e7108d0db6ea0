// Package facedetect periodically samples the live video frame and
// classifies whether a face is present. Only presence transitions emit
// violation candidates; sampling failures are no-ops, never violations.
package facedetect

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
)

// FrameSource yields the current video frame. media.Stream satisfies it.
type FrameSource interface {
	Frame() (*model.Frame, error)
}

// Classifier decides whether a frame shows a face. Implementations are
// interchangeable: the brightness heuristic or a trained model.
type Classifier interface {
	Classify(f *model.Frame) (bool, error)
}

// Detector drives the sampling timer and the debounce.
type Detector struct {
	source     FrameSource
	classifier Classifier
	interval   time.Duration
	status     func() model.SessionStatus
	emit       func(model.Candidate)
	log        *zap.Logger

	mu       sync.Mutex
	presence model.FacePresence

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
	started  bool
}

// New builds a detector. The presence state starts out "present" so that
// a session beginning with an absent face still produces exactly one
// transition event.
func New(source FrameSource, classifier Classifier, interval time.Duration, status func() model.SessionStatus, emit func(model.Candidate), log *zap.Logger) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{
		source:     source,
		classifier: classifier,
		interval:   interval,
		status:     status,
		emit:       emit,
		log:        log,
		presence:   model.FacePresence{Present: true},
		done:       make(chan struct{}),
	}
}

// Start launches the sampling loop. Calling Start twice is a no-op.
func (d *Detector) Start() {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	d.wg.Add(1)
	go d.run()
}

// Stop cancels the sampling timer exactly once and waits for the loop.
func (d *Detector) Stop() {
	d.stopOnce.Do(func() { close(d.done) })
	d.wg.Wait()
}

// Presence returns the current debounce state.
func (d *Detector) Presence() model.FacePresence {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.presence
}

func (d *Detector) run() {
	defer d.wg.Done()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			d.Sample()
		}
	}
}

// Sample classifies one frame and applies the debounce. Exported so tests
// and pre-checks can drive the detector without the timer.
func (d *Detector) Sample() {
	if d.source == nil {
		return
	}
	frame, err := d.source.Frame()
	if err != nil {
		// Frame not ready; classification failure is a no-op.
		return
	}
	if !frame.Usable() {
		return
	}
	present, err := d.classifier.Classify(frame)
	if err != nil {
		d.log.Debug("face classification failed", zap.Error(err))
		return
	}

	d.mu.Lock()
	changed := d.presence.Present != present
	if changed {
		d.presence = model.FacePresence{Present: present, LastChangedAt: time.Now()}
	}
	d.mu.Unlock()

	if !changed {
		return
	}
	if present {
		d.log.Info("face presence regained")
		return
	}
	if d.status() != model.StatusActive {
		return
	}
	d.emit(model.Candidate{
		Type:        model.EventFaceNotDetected,
		Severity:    model.SeverityHigh,
		Description: "Face not detected in camera feed",
	})
}
