package media

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/config"
	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
)

// Manager is the device & stream manager: a scoped acquisition of the
// capture stream, fullscreen mode, and the camera hotplug watcher, with a
// guaranteed Release on every exit path.
type Manager struct {
	mu      sync.Mutex
	capture Capture
	display Display
	cfg     config.ProctorConfig
	log     *zap.Logger

	stream    Stream
	perms     model.PermissionState
	hotplug   hotplugWatcher
	unplugged <-chan string
	acquired  bool
}

// NewManager wires the host surfaces in. Either surface may be nil; a nil
// surface fails acquisition only if the configuration requires it.
func NewManager(capture Capture, display Display, cfg config.ProctorConfig, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{capture: capture, display: display, cfg: cfg, log: log}
}

// Acquire obtains every required capability, bounded by the configured
// timeout. On any failure it releases whatever it already holds and
// returns a *PermissionError; no SecurityEvent is ever produced here.
// Re-acquisition releases the previous stream first.
func (m *Manager) Acquire(ctx context.Context) (Stream, error) {
	m.Release()

	ctx, cancel := context.WithTimeout(ctx, m.cfg.AcquireTimeout())
	defer cancel()

	var stream Stream
	if m.cfg.CameraRequired || m.cfg.MicrophoneRequired {
		if m.capture == nil {
			return nil, &PermissionError{Capability: "camera", Reason: "capture surface unavailable"}
		}
		s, err := m.capture.OpenStream(ctx, Constraints{
			Camera:     m.cfg.CameraRequired,
			Microphone: m.cfg.MicrophoneRequired,
		})
		if err != nil {
			m.setPerms(model.PermissionState{})
			return nil, &PermissionError{Capability: "camera", Reason: "stream acquisition failed", Err: err}
		}
		stream = s
	}
	m.setPerms(model.PermissionState{
		Camera:     m.cfg.CameraRequired,
		Microphone: m.cfg.MicrophoneRequired,
	})

	if m.cfg.FullscreenRequired && m.display != nil && !m.display.Active() {
		if err := m.display.EnterFullscreen(ctx); err != nil {
			if stream != nil {
				stream.StopTracks()
			}
			return nil, &PermissionError{Capability: "fullscreen", Reason: "fullscreen request rejected", Err: err}
		}
	}

	m.mu.Lock()
	m.stream = stream
	m.acquired = true
	m.mu.Unlock()

	if m.cfg.CameraRequired {
		m.startHotplug()
	}
	m.log.Info("media acquired",
		zap.Bool("camera", m.cfg.CameraRequired),
		zap.Bool("microphone", m.cfg.MicrophoneRequired),
		zap.Bool("fullscreen", m.cfg.FullscreenRequired),
	)
	return stream, nil
}

// Release stops the stream's tracks, leaves fullscreen, and stops the
// hotplug watcher. Idempotent; called on every teardown path.
func (m *Manager) Release() {
	m.mu.Lock()
	stream := m.stream
	hotplug := m.hotplug
	acquired := m.acquired
	m.stream = nil
	m.hotplug = nil
	m.unplugged = nil
	m.acquired = false
	m.mu.Unlock()

	if stream != nil {
		stream.StopTracks()
	}
	if hotplug != nil {
		hotplug.Stop()
	}
	if acquired && m.cfg.FullscreenRequired && m.display != nil {
		m.display.ExitFullscreen()
	}
}

// Permissions returns the current permission state.
func (m *Manager) Permissions() model.PermissionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.perms
}

// Stream returns the live stream, or nil when none is held.
func (m *Manager) Stream() Stream {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stream
}

// Unplugged delivers device names of cameras physically disconnected while
// acquired. Nil when the platform has no hotplug support.
func (m *Manager) Unplugged() <-chan string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unplugged
}

func (m *Manager) setPerms(p model.PermissionState) {
	m.mu.Lock()
	m.perms = p
	m.mu.Unlock()
}

// startHotplug degrades silently when the platform watcher cannot start;
// partial monitoring is better than none.
func (m *Manager) startHotplug() {
	hp := newHotplug(m.log)
	if hp == nil {
		return
	}
	ch, err := hp.Start()
	if err != nil {
		m.log.Warn("camera hotplug watcher unavailable", zap.Error(err))
		return
	}
	m.mu.Lock()
	m.hotplug = hp
	m.unplugged = ch
	m.mu.Unlock()
}
