// Package media owns camera/microphone stream acquisition and fullscreen
// binding. The host capability surfaces (capture and display) are injected
// interfaces so the engine never touches a concrete environment directly.
package media

import (
	"context"
	"fmt"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
)

// Constraints enumerates which capabilities an acquisition must obtain.
type Constraints struct {
	Camera     bool
	Microphone bool
}

// Stream is a live media stream bound to the session.
type Stream interface {
	// Frame samples the current video frame. An error or a zero-dimension
	// frame means no usable picture; callers treat both as a no-op.
	Frame() (*model.Frame, error)

	// Muted reports whether the audio track is currently muted.
	Muted() bool

	// StopTracks stops every track. Safe to call more than once.
	StopTracks()
}

// Capture acquires device streams. May block on a user prompt; the context
// bounds how long.
type Capture interface {
	OpenStream(ctx context.Context, c Constraints) (Stream, error)
}

// Display controls and observes fullscreen state.
type Display interface {
	EnterFullscreen(ctx context.Context) error
	ExitFullscreen()
	Active() bool

	// Changes delivers the fullscreen state after each transition.
	Changes() <-chan bool
}

// PermissionError reports a failed capability acquisition. It is a setup
// failure, never a violation: the caller may retry without penalty.
type PermissionError struct {
	Capability string
	Reason     string
	Err        error
}

func (e *PermissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Capability, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Capability, e.Reason)
}

func (e *PermissionError) Unwrap() error { return e.Err }
