package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/facedetect"
	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/media"
	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/proctor"
	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/sensors"
)

// simHost is a self-contained stand-in for the browser capability surface
// so the agent can run the full engine on a headless machine. The capture
// backend delivers PNG-encoded stills, the way snapshot-based capture
// APIs do, and the engine decodes them itself; the demo triggers below
// inject the adversarial signals.
type simHost struct {
	mu       sync.Mutex
	fsActive bool
	covered  bool
	fsCh     chan bool
	visCh    chan bool
	keyCh    chan sensors.KeyEvent
	stream   *facedetect.SnapshotStream
}

func newSimHost() *simHost {
	h := &simHost{
		fsCh:  make(chan bool, 4),
		visCh: make(chan bool, 4),
		keyCh: make(chan sensors.KeyEvent, 4),
	}
	h.stream = facedetect.NewSnapshotStream(h.snapshot)
	return h
}

func (h *simHost) Host() proctor.Host {
	return proctor.Host{Capture: h, Display: h, Page: h}
}

// OpenStream implements media.Capture.
func (h *simHost) OpenStream(ctx context.Context, c media.Constraints) (media.Stream, error) {
	return h.stream, nil
}

// Display surface.

func (h *simHost) EnterFullscreen(ctx context.Context) error {
	h.setFullscreen(true)
	return nil
}

func (h *simHost) ExitFullscreen() { h.setFullscreen(false) }

func (h *simHost) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fsActive
}

func (h *simHost) Changes() <-chan bool { return h.fsCh }

func (h *simHost) setFullscreen(active bool) {
	h.mu.Lock()
	changed := h.fsActive != active
	h.fsActive = active
	h.mu.Unlock()
	if changed {
		select {
		case h.fsCh <- active:
		default:
		}
	}
}

// Page surface.

func (h *simHost) Visibility() <-chan bool { return h.visCh }

func (h *simHost) Keys() <-chan sensors.KeyEvent { return h.keyCh }

// Demo triggers.

func (h *simHost) LeaveFullscreen() { h.setFullscreen(false) }

func (h *simHost) HidePage() {
	select {
	case h.visCh <- true:
	default:
	}
}

func (h *simHost) PressNewTab() {
	select {
	case h.keyCh <- sensors.NewKeyEvent("t", true, false, false, false, nil):
	default:
	}
}

func (h *simHost) CoverCamera(covered bool) {
	h.mu.Lock()
	h.covered = covered
	h.mu.Unlock()
}

// snapshot renders one PNG still: flat gray with a brighter center
// region, which the brightness heuristic reads as a present face.
// Covering the camera turns the still near-black.
func (h *simHost) snapshot() ([]byte, error) {
	h.mu.Lock()
	covered := h.covered
	h.mu.Unlock()

	const w, hgt = 320, 240
	img := image.NewGray(image.Rect(0, 0, w, hgt))
	if !covered {
		for y := 0; y < hgt; y++ {
			for x := 0; x < w; x++ {
				luma := uint8(90)
				if x > w/3 && x < 2*w/3 && y > hgt/3 && y < 2*hgt/3 {
					luma = 170
				}
				img.SetGray(x, y, color.Gray{Y: luma})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
