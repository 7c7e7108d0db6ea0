package model

import "time"

// EventType classifies a recorded violation.
type EventType string

const (
	EventTabSwitch       EventType = "tab_switch"
	EventFullscreenExit  EventType = "fullscreen_exit"
	EventCameraBlocked   EventType = "camera_blocked"
	EventMicMuted        EventType = "mic_muted"
	EventFaceNotDetected EventType = "face_not_detected"
)

// Severity buckets drive both the integrity score weights and the
// controller's pause policy.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SecurityEvent is an immutable violation record. Seq is assigned by the
// ledger and is the ordering key; ID is opaque.
type SecurityEvent struct {
	ID          string    `json:"id"`
	Seq         uint64    `json:"seq"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
}

// Candidate is a violation before the ledger stamps identity onto it.
// Sensors and the face detector produce candidates; only the session
// state machine turns them into SecurityEvents.
type Candidate struct {
	Type        EventType
	Severity    Severity
	Description string
}

// SessionStatus is the single source of truth for whether sensors may emit.
type SessionStatus string

const (
	StatusInitializing SessionStatus = "initializing"
	StatusActive       SessionStatus = "active"
	StatusPaused       SessionStatus = "paused"
	StatusStopped      SessionStatus = "stopped"
)

// PermissionState reflects granted device access. Mutated only by the
// media manager after an acquisition attempt resolves.
type PermissionState struct {
	Camera     bool `json:"camera"`
	Microphone bool `json:"microphone"`
}

// IntegritySummary is derived on demand from the ledger plus the
// permission state; it is never stored.
type IntegritySummary struct {
	IntegrityScore  int      `json:"integrity_score"`
	ViolationsCount int      `json:"violations_count"`
	TechnicalIssues []string `json:"technical_issues"`
}

// FacePresence is the detector's debounce state: only changes of Present
// produce events.
type FacePresence struct {
	Present       bool      `json:"present"`
	LastChangedAt time.Time `json:"last_changed_at"`
}

// Frame is a single sampled video frame as an 8-bit luma plane, row-major.
// A zero-dimension frame means the source has no usable picture yet.
type Frame struct {
	Width  int
	Height int
	Y      []byte
}

// Usable reports whether the frame carries a picture worth classifying.
func (f *Frame) Usable() bool {
	return f != nil && f.Width > 0 && f.Height > 0 && len(f.Y) >= f.Width*f.Height
}
