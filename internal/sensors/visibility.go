package sensors

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
)

// VisibilitySensor emits a tab_switch violation when the page becomes
// hidden while the session is active.
type VisibilitySensor struct {
	visibility <-chan bool
	status     StatusFunc
	emit       Emit
	log        *zap.Logger

	mu       sync.Mutex
	attached bool
	done     chan struct{}
	wg       sync.WaitGroup
}

func NewVisibilitySensor(visibility <-chan bool, status StatusFunc, emit Emit, log *zap.Logger) *VisibilitySensor {
	if log == nil {
		log = zap.NewNop()
	}
	return &VisibilitySensor{visibility: visibility, status: status, emit: emit, log: log}
}

func (s *VisibilitySensor) Attach() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached {
		return nil
	}
	if s.visibility == nil {
		return errors.New("page visibility feed unsupported")
	}
	s.done = make(chan struct{})
	s.attached = true
	s.wg.Add(1)
	go s.run(s.done)
	return nil
}

func (s *VisibilitySensor) Detach() {
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

func (s *VisibilitySensor) run(done chan struct{}) {
	defer s.wg.Done()
	for {
		select {
		case <-done:
			return
		case hidden, ok := <-s.visibility:
			if !ok {
				return
			}
			if !hidden {
				continue
			}
			if s.status() != model.StatusActive {
				continue
			}
			s.emit(model.Candidate{
				Type:        model.EventTabSwitch,
				Severity:    model.SeverityHigh,
				Description: "Tab switch or window minimized detected",
			})
		}
	}
}
