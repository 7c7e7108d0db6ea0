package sensors

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
)

// FullscreenSensor watches the display's fullscreen feed and emits a
// fullscreen_exit violation on an active-to-inactive transition while the
// session is active and fullscreen is required.
type FullscreenSensor struct {
	changes  <-chan bool
	required bool
	status   StatusFunc
	emit     Emit
	log      *zap.Logger

	mu       sync.Mutex
	attached bool
	done     chan struct{}
	wg       sync.WaitGroup

	// last observed fullscreen state; seeded on attach
	active bool
}

// NewFullscreenSensor takes the display's change feed plus the current
// fullscreen state to seed the transition tracking.
func NewFullscreenSensor(changes <-chan bool, initialActive, required bool, status StatusFunc, emit Emit, log *zap.Logger) *FullscreenSensor {
	if log == nil {
		log = zap.NewNop()
	}
	return &FullscreenSensor{
		changes:  changes,
		required: required,
		status:   status,
		emit:     emit,
		log:      log,
		active:   initialActive,
	}
}

func (s *FullscreenSensor) Attach() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached {
		return nil
	}
	if s.changes == nil {
		return errors.New("fullscreen change feed unsupported")
	}
	s.done = make(chan struct{})
	s.attached = true
	s.wg.Add(1)
	go s.run(s.done)
	return nil
}

func (s *FullscreenSensor) Detach() {
	s.mu.Lock()
	if !s.attached {
		s.mu.Unlock()
		return
	}
	s.attached = false
	close(s.done)
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *FullscreenSensor) run(done chan struct{}) {
	defer s.wg.Done()
	for {
		select {
		case <-done:
			return
		case now, ok := <-s.changes:
			if !ok {
				return
			}
			wasActive := s.active
			s.active = now
			if !s.required || !wasActive || now {
				continue
			}
			// Re-check status at emission time, not arrival time.
			if s.status() != model.StatusActive {
				continue
			}
			s.emit(model.Candidate{
				Type:        model.EventFullscreenExit,
				Severity:    model.SeverityHigh,
				Description: "Exited fullscreen mode",
			})
		}
	}
}
