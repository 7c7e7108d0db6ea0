package sensors

import (
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
)

// KeyboardSensor intercepts the shortcuts used to open, close, or switch
// tabs and windows. Each interception cancels the host's default action
// and emits a tab_switch violation naming the blocked combination.
type KeyboardSensor struct {
	keys   <-chan KeyEvent
	status StatusFunc
	emit   Emit
	log    *zap.Logger

	mu       sync.Mutex
	attached bool
	done     chan struct{}
	wg       sync.WaitGroup
}

func NewKeyboardSensor(keys <-chan KeyEvent, status StatusFunc, emit Emit, log *zap.Logger) *KeyboardSensor {
	if log == nil {
		log = zap.NewNop()
	}
	return &KeyboardSensor{keys: keys, status: status, emit: emit, log: log}
}

func (s *KeyboardSensor) Attach() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached {
		return nil
	}
	if s.keys == nil {
		return errors.New("keyboard feed unsupported")
	}
	s.done = make(chan struct{})
	s.attached = true
	s.wg.Add(1)
	go s.run(s.done)
	return nil
}

func (s *KeyboardSensor) Detach() {
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

func (s *KeyboardSensor) run(done chan struct{}) {
	defer s.wg.Done()
	for {
		select {
		case <-done:
			return
		case ev, ok := <-s.keys:
			if !ok {
				return
			}
			combo, blocked := blockedShortcut(ev)
			if !blocked {
				continue
			}
			if s.status() != model.StatusActive {
				continue
			}
			ev.Cancel()
			s.log.Debug("keyboard shortcut blocked", zap.String("combo", combo))
			s.emit(model.Candidate{
				Type:        model.EventTabSwitch,
				Severity:    model.SeverityMedium,
				Description: "Blocked keyboard shortcut: " + combo,
			})
		}
	}
}

// blockedShortcut matches the fixed table of tab/window manipulation
// shortcuts and names the combination for the violation description.
func blockedShortcut(ev KeyEvent) (string, bool) {
	key := strings.ToLower(ev.Key)

	if ev.Ctrl || ev.Meta {
		mod := "Ctrl"
		if ev.Meta {
			mod = "Cmd"
		}
		switch key {
		case "t": // new tab
			return mod + "+T", true
		case "n": // new window
			return mod + "+N", true
		case "w": // close tab
			return mod + "+W", true
		}
	}
	if ev.Alt && key == "tab" {
		return "Alt+Tab", true
	}
	if key == "f11" {
		return "F11", true
	}
	return "", false
}
