// Package sensors turns raw host events (fullscreen transitions, page
// visibility, keyboard input) into violation candidates. Every sensor is
// idempotently attachable and detachable and re-checks the session status
// at emission time, never at event arrival.
package sensors

import "github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"

// Page is the host's page surface: visibility transitions and raw key
// events. Either channel may be nil when the capability is unsupported;
// the corresponding sensor then fails to attach and is degraded silently.
type Page interface {
	// Visibility delivers true when the page becomes hidden, false when it
	// becomes visible again.
	Visibility() <-chan bool

	Keys() <-chan KeyEvent
}

// KeyEvent is one keyboard event from the host. Cancel is the
// prevent-default analog: calling it stops the host from acting on the
// shortcut.
type KeyEvent struct {
	Key    string
	Ctrl   bool
	Alt    bool
	Shift  bool
	Meta   bool
	cancel func()
}

// NewKeyEvent builds an event; cancel may be nil.
func NewKeyEvent(key string, ctrl, alt, shift, meta bool, cancel func()) KeyEvent {
	return KeyEvent{Key: key, Ctrl: ctrl, Alt: alt, Shift: shift, Meta: meta, cancel: cancel}
}

// Cancel blocks the host's default action for this event.
func (e KeyEvent) Cancel() {
	if e.cancel != nil {
		e.cancel()
	}
}

// Emit delivers a violation candidate to the session state machine.
type Emit func(model.Candidate)

// StatusFunc reports the live session status.
type StatusFunc func() model.SessionStatus

// Sensor is a lifecycle-scoped listener. Attach and Detach are both
// idempotent; Detach must be safe from any state.
type Sensor interface {
	Attach() error
	Detach()
}
