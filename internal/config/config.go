// Package config provides YAML-based settings loading for the physics
// viewer and the headless simulator.
package config

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/goblin-physics/internal/physics"
)

// Settings holds user-tunable options. Zero-valued keys missing from a
// file keep their defaults.
type Settings struct {
	ShowFPS      bool            `yaml:"show_fps"`
	VSync        bool            `yaml:"vsync"`
	DebugPhysics bool            `yaml:"debug_physics"`
	LogLevel     string          `yaml:"log_level"`
	TargetFPS    int             `yaml:"target_fps"`
	RenderScale  float64         `yaml:"render_scale"` // viewer zoom factor
	Physics      PhysicsSettings `yaml:"physics"`
}

// PhysicsSettings configures the simulation.
type PhysicsSettings struct {
	RefreshRate    float64 `yaml:"refresh_rate"`     // fixed steps per second
	PixelsPerMeter float64 `yaml:"pixels_per_meter"` // level authoring scale
	FootHalfHeight float64 `yaml:"foot_half_height"` // ground sensor, meters
}

// Validate checks that rates and scales are positive and the log level is known.
func (s Settings) Validate() error {
	if s.TargetFPS <= 0 {
		return fmt.Errorf("config: target_fps must be positive, got %d", s.TargetFPS)
	}
	if s.RenderScale <= 0 {
		return fmt.Errorf("config: render_scale must be positive, got %g", s.RenderScale)
	}
	if s.Physics.RefreshRate <= 0 {
		return fmt.Errorf("config: physics.refresh_rate must be positive, got %g", s.Physics.RefreshRate)
	}
	if s.Physics.PixelsPerMeter <= 0 {
		return fmt.Errorf("config: physics.pixels_per_meter must be positive, got %g", s.Physics.PixelsPerMeter)
	}
	if s.Physics.FootHalfHeight <= 0 {
		return fmt.Errorf("config: physics.foot_half_height must be positive, got %g", s.Physics.FootHalfHeight)
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("config: log_level %q: %w", s.LogLevel, err)
	}
	return nil
}

// WorldOptions converts the physics settings into world options.
func (p PhysicsSettings) WorldOptions(logger *log.Logger) physics.Options {
	return physics.Options{
		RefreshRate:    p.RefreshRate,
		FootHalfHeight: p.FootHalfHeight,
		Logger:         logger,
	}
}

// TickRate returns the viewer ticks per second. Without vsync the viewer
// renders as fast as the terminal accepts frames, signalled by 0.
func (s Settings) TickRate() int {
	if !s.VSync {
		return 0
	}
	return s.TargetFPS
}
