// Package config holds the proctoring configuration handed to the engine
// by the assessment session controller.
//
// Resolution order: Default() values, then an optional TOML file, then
// PROCTOR_* environment overrides. The engine honors the capability
// booleans exactly: a capability that is not required is never requested.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// ProctorConfig enumerates the capabilities a session must acquire and the
// monitoring knobs.
type ProctorConfig struct {
	CameraRequired     bool `toml:"camera_required" env:"PROCTOR_CAMERA_REQUIRED"`
	MicrophoneRequired bool `toml:"microphone_required" env:"PROCTOR_MICROPHONE_REQUIRED"`
	FullscreenRequired bool `toml:"fullscreen_required" env:"PROCTOR_FULLSCREEN_REQUIRED"`
	FaceDetection      bool `toml:"face_detection" env:"PROCTOR_FACE_DETECTION"`
	AutoStart          bool `toml:"auto_start" env:"PROCTOR_AUTO_START"`

	// FaceSampleIntervalMS is the face detector's sampling period.
	FaceSampleIntervalMS int `toml:"face_sample_interval_ms" env:"PROCTOR_FACE_SAMPLE_INTERVAL_MS"`

	// LedgerBound caps the violation ledger; insertion evicts the oldest.
	LedgerBound int `toml:"ledger_bound" env:"PROCTOR_LEDGER_BOUND"`

	// PauseOnCritical makes the state machine auto-pause when a critical
	// violation lands. Hard-stopping is the controller's call either way.
	PauseOnCritical bool `toml:"pause_on_critical" env:"PROCTOR_PAUSE_ON_CRITICAL"`

	// AcquireTimeoutSec bounds how long a permission prompt may hang.
	AcquireTimeoutSec int `toml:"acquire_timeout_sec" env:"PROCTOR_ACQUIRE_TIMEOUT_SEC"`
}

// Default returns the reference configuration.
func Default() ProctorConfig {
	return ProctorConfig{
		CameraRequired:       true,
		MicrophoneRequired:   true,
		FullscreenRequired:   true,
		FaceDetection:        true,
		AutoStart:            false,
		FaceSampleIntervalMS: 2000,
		LedgerBound:          5,
		PauseOnCritical:      true,
		AcquireTimeoutSec:    15,
	}
}

// LoadFile overlays a TOML file onto the defaults. A missing file is not
// an error; the defaults stand.
func LoadFile(path string) (ProctorConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays PROCTOR_* environment variables onto cfg. Unset
// variables leave the existing values untouched.
func ApplyEnv(cfg *ProctorConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Load resolves the full chain: defaults, file, environment, validation.
func Load(path string) (ProctorConfig, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *ProctorConfig) Validate() error {
	if c.FaceSampleIntervalMS < 100 {
		return fmt.Errorf("face_sample_interval_ms %d below 100ms floor", c.FaceSampleIntervalMS)
	}
	if c.LedgerBound < 1 {
		return fmt.Errorf("ledger_bound must be positive, got %d", c.LedgerBound)
	}
	if c.AcquireTimeoutSec < 1 {
		return fmt.Errorf("acquire_timeout_sec must be positive, got %d", c.AcquireTimeoutSec)
	}
	if c.FaceDetection && !c.CameraRequired {
		return fmt.Errorf("face_detection requires camera_required")
	}
	return nil
}

// SampleInterval is FaceSampleIntervalMS as a duration.
func (c *ProctorConfig) SampleInterval() time.Duration {
	return time.Duration(c.FaceSampleIntervalMS) * time.Millisecond
}

// AcquireTimeout is AcquireTimeoutSec as a duration.
func (c *ProctorConfig) AcquireTimeout() time.Duration {
	return time.Duration(c.AcquireTimeoutSec) * time.Second
}

// RequiresNothing reports whether the machine may auto-advance to active
// without any user-granted capability.
func (c *ProctorConfig) RequiresNothing() bool {
	return !c.CameraRequired && !c.MicrophoneRequired && !c.FullscreenRequired
}
