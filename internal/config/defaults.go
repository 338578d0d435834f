package config

import (
	_ "embed"
)

//go:embed defaults/settings.yaml
var defaultSettingsYAML []byte

// Default returns the hardcoded settings.
func Default() Settings {
	return Settings{
		ShowFPS:      true,
		VSync:        true,
		DebugPhysics: false,
		LogLevel:     "warn",
		TargetFPS:    60,
		RenderScale:  1.0,
		Physics: PhysicsSettings{
			RefreshRate:    60,
			PixelsPerMeter: 32,
			FootHalfHeight: 0.05,
		},
	}
}

// DefaultYAML returns the embedded default settings file.
func DefaultYAML() []byte {
	return defaultSettingsYAML
}
