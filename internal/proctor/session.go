// Package proctor ties the media manager, sensors, and face detector into
// the session state machine the assessment controller drives. The machine
// owns every lifecycle-scoped resource (stream, timers, listeners) and
// guarantees their release on all exit paths.
package proctor

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/config"
	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/facedetect"
	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/ledger"
	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/media"
	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/sensors"
)

// ErrSessionStopped is returned when Start resolves after Cleanup already
// tore the session down.
var ErrSessionStopped = errors.New("session already stopped")

// ErrSessionPaused is returned when Start is called on a paused session.
// A paused session still owns its stream, run loop, and detector; the
// only way forward is Resume.
var ErrSessionPaused = errors.New("session paused, use Resume")

// Host groups the environment capability surfaces. Any field may be nil;
// the matching sensor or acquisition degrades accordingly.
type Host struct {
	Capture media.Capture
	Display media.Display
	Page    sensors.Page
}

// Callbacks is the message-passing surface toward the controller. The
// core never reaches into controller state; it emits typed messages and
// lets the controller decide effects.
type Callbacks struct {
	OnSecurityEvent func(model.SecurityEvent)
	OnStatusChange  func(model.SessionStatus)
}

// Session is the proctoring state machine:
//
//	initializing → active ⇄ paused → stopped
//
// stopped is terminal and reachable from any state via Cleanup.
type Session struct {
	cfg  config.ProctorConfig
	host Host
	cb   Callbacks
	log  *zap.Logger

	ledger  *ledger.Ledger
	manager *media.Manager

	mu       sync.Mutex
	status   model.SessionStatus
	cleaned  bool
	attached []sensors.Sensor
	detector *facedetect.Detector
	loopStop chan struct{}
	micMuted bool

	candidates chan model.Candidate

	// classifier override; defaults to the brightness heuristic
	classifier facedetect.Classifier
}

// NewSession builds the machine in the initializing state and attaches
// the sensors immediately so environment signals are observed from the
// start; nothing is emitted until the machine goes active. Unsupported
// sensors are degraded silently.
func NewSession(cfg config.ProctorConfig, host Host, cb Callbacks, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		cfg:        cfg,
		host:       host,
		cb:         cb,
		log:        log,
		status:     model.StatusInitializing,
		candidates: make(chan model.Candidate, 16),
		classifier: facedetect.NewHeuristic(),
	}
	s.ledger = ledger.New(cfg.LedgerBound, cb.OnSecurityEvent, log.Named("ledger"))
	s.manager = media.NewManager(host.Capture, host.Display, cfg, log.Named("media"))
	s.attachSensors()
	return s
}

// SetClassifier swaps the face classifier before Start. A nil classifier
// keeps the heuristic.
func (s *Session) SetClassifier(c facedetect.Classifier) {
	if c != nil {
		s.classifier = c
	}
}

// Start acquires the required capabilities and transitions to active.
// A *media.PermissionError leaves the machine stopped pending retry:
// calling Start again is allowed and carries no penalty.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cleaned {
		s.mu.Unlock()
		return ErrSessionStopped
	}
	if s.status == model.StatusActive {
		s.mu.Unlock()
		return nil
	}
	if s.status == model.StatusPaused {
		s.mu.Unlock()
		return ErrSessionPaused
	}
	s.mu.Unlock()

	if s.cfg.RequiresNothing() {
		// No user gesture needed; auto-advance.
		s.startLoop(nil, nil)
		s.setStatus(model.StatusActive)
		return nil
	}

	stream, err := s.manager.Acquire(ctx)
	if err != nil {
		s.log.Warn("capability acquisition failed", zap.Error(err))
		s.setStatus(model.StatusStopped)
		return err
	}

	// Cleanup may have run while the prompt was pending; the stale
	// acquisition must not leak a live camera.
	s.mu.Lock()
	if s.cleaned {
		s.mu.Unlock()
		s.manager.Release()
		return ErrSessionStopped
	}
	if s.cfg.FaceDetection && stream != nil {
		s.detector = facedetect.New(stream, s.classifier, s.cfg.SampleInterval(), s.Status, s.enqueue, s.log.Named("facedetect"))
		s.detector.Start()
	}
	s.mu.Unlock()

	s.startLoop(stream, s.manager.Unplugged())
	s.setStatus(model.StatusActive)
	return nil
}

// Pause halts the assessment while keeping sensors attached; violations
// recorded while paused are dropped at the status gate, but the ledger
// and score remain queryable.
func (s *Session) Pause(reason string) {
	s.mu.Lock()
	if s.status != model.StatusActive {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.log.Info("session paused", zap.String("reason", reason))
	s.setStatus(model.StatusPaused)
}

// Resume returns a paused session to active.
func (s *Session) Resume() {
	s.mu.Lock()
	if s.status != model.StatusPaused {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.setStatus(model.StatusActive)
}

// Cleanup is the terminal teardown: stops the detector timer, detaches
// every listener, releases the media stream, and notifies stopped. Safe
// to call from any state; repeated calls are no-ops.
func (s *Session) Cleanup() {
	s.mu.Lock()
	if s.cleaned {
		s.mu.Unlock()
		return
	}
	s.cleaned = true
	detector := s.detector
	s.detector = nil
	attached := s.attached
	s.attached = nil
	loopStop := s.loopStop
	s.loopStop = nil
	s.mu.Unlock()

	// Freeze the ledger before anything else: a candidate that passed
	// record's status gate before the latch flipped must not land an event
	// or reach the sink after Cleanup returns.
	s.ledger.Close()

	// The run loop is signalled, not awaited: Cleanup may be invoked from
	// a callback running on the loop goroutine itself. Late candidates are
	// discarded at the cleaned gate in record.
	if loopStop != nil {
		close(loopStop)
	}
	if detector != nil {
		detector.Stop()
	}
	for _, sn := range attached {
		sn.Detach()
	}
	s.manager.Release()
	s.setStatus(model.StatusStopped)
	s.log.Info("session cleaned up")
}

// Status implements sensors.StatusFunc.
func (s *Session) Status() model.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Violations returns the current ledger snapshot, newest first.
func (s *Session) Violations() []model.SecurityEvent {
	return s.ledger.Snapshot()
}

// IntegritySummary recomputes the summary from the ledger and permission
// state. Called by the controller at submission time.
func (s *Session) IntegritySummary() model.IntegritySummary {
	return ledger.Summarize(s.ledger.Snapshot(), s.manager.Permissions(), ledger.Requirements{
		Camera:     s.cfg.CameraRequired,
		Microphone: s.cfg.MicrophoneRequired,
	})
}

// Permissions exposes the media manager's permission state.
func (s *Session) Permissions() model.PermissionState {
	return s.manager.Permissions()
}

// setStatus fires OnStatusChange exactly once per transition. stopped is
// terminal: once the cleaned latch is set, the only transition allowed
// through is Cleanup's own move to stopped. A controller calling Cleanup
// from inside OnSecurityEvent must not see paused or active afterwards.
func (s *Session) setStatus(st model.SessionStatus) {
	s.mu.Lock()
	if s.status == st || (s.cleaned && st != model.StatusStopped) {
		s.mu.Unlock()
		return
	}
	s.status = st
	s.mu.Unlock()

	s.log.Info("status change", zap.String("status", string(st)))
	if s.cb.OnStatusChange != nil {
		s.cb.OnStatusChange(st)
	}
}

// enqueue hands a candidate to the run loop. Dropping on a full queue is
// deliberate: a flood of identical candidates carries no extra signal.
func (s *Session) enqueue(c model.Candidate) {
	select {
	case s.candidates <- c:
	default:
		s.log.Warn("candidate queue full, dropping", zap.String("type", string(c.Type)))
	}
}

// startLoop launches the single goroutine that serializes all candidate
// intake and recording.
func (s *Session) startLoop(stream media.Stream, unplugged <-chan string) {
	s.mu.Lock()
	if s.cleaned || s.loopStop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.loopStop = stop
	s.mu.Unlock()

	go s.run(stream, unplugged, stop)
}

func (s *Session) run(stream media.Stream, unplugged <-chan string, stop chan struct{}) {
	ticker := time.NewTicker(s.cfg.SampleInterval())
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return

		case c := <-s.candidates:
			s.record(c)

		case dev, ok := <-unplugged:
			if !ok {
				unplugged = nil
				continue
			}
			s.record(model.Candidate{
				Type:        model.EventCameraBlocked,
				Severity:    model.SeverityCritical,
				Description: "Camera device disconnected: " + dev,
			})

		case <-ticker.C:
			s.checkMic(stream)
		}
	}
}

// record is the single serialization point. The status read at candidate
// creation may be stale by now, so it is re-checked here before anything
// lands in the ledger.
func (s *Session) record(c model.Candidate) {
	s.mu.Lock()
	if s.cleaned || s.status != model.StatusActive {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.ledger.Record(c)
	if c.Severity == model.SeverityCritical && s.cfg.PauseOnCritical {
		s.setStatus(model.StatusPaused)
	}
}

// checkMic polls the audio track's mute flag, debounced so only the
// muted transition is recorded.
func (s *Session) checkMic(stream media.Stream) {
	if stream == nil || !s.cfg.MicrophoneRequired {
		return
	}
	muted := stream.Muted()

	s.mu.Lock()
	changed := muted != s.micMuted
	s.micMuted = muted
	s.mu.Unlock()

	if !changed || !muted {
		return
	}
	s.record(model.Candidate{
		Type:        model.EventMicMuted,
		Severity:    model.SeverityMedium,
		Description: "Microphone muted during session",
	})
}

// attachSensors wires the three listeners against the host surfaces.
// Attachment failures degrade that sensor only; partial monitoring beats
// none.
func (s *Session) attachSensors() {
	var changes <-chan bool
	initialActive := false
	if s.host.Display != nil {
		changes = s.host.Display.Changes()
		initialActive = s.host.Display.Active()
	}
	var visibility <-chan bool
	var keys <-chan sensors.KeyEvent
	if s.host.Page != nil {
		visibility = s.host.Page.Visibility()
		keys = s.host.Page.Keys()
	}

	listeners := []sensors.Sensor{
		sensors.NewFullscreenSensor(changes, initialActive, s.cfg.FullscreenRequired, s.Status, s.enqueue, s.log.Named("fullscreen")),
		sensors.NewVisibilitySensor(visibility, s.Status, s.enqueue, s.log.Named("visibility")),
		sensors.NewKeyboardSensor(keys, s.Status, s.enqueue, s.log.Named("keyboard")),
	}
	for _, sn := range listeners {
		if err := sn.Attach(); err != nil {
			s.log.Warn("sensor unavailable", zap.Error(err))
			continue
		}
		s.attached = append(s.attached, sn)
	}
}
