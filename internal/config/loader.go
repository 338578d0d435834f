package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SettingsFile is the settings file name looked up in each location.
const SettingsFile = "settings.yaml"

// Source names where settings came from.
const (
	SourceEmbedded = "embedded"
	SourceBuiltin  = "builtin"
)

// Load loads settings.
// Search order: customPath -> ~/.goblin/settings.yaml -> ./configs/settings.yaml -> embedded default
func Load(customPath string) (Settings, error) {
	s, _, err := Resolve(customPath)
	return s, err
}

// Resolve is like Load and also returns the path or source that was used.
// A custom path must exist and be valid; other locations are skipped when
// missing or broken.
func Resolve(customPath string) (Settings, string, error) {
	// Try custom path first
	if customPath != "" {
		s, err := readFile(customPath)
		if err != nil {
			return Default(), "", err
		}
		return s, customPath, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(SettingsFile); userCfgPath != "" {
		if s, err := readFile(userCfgPath); err == nil {
			return s, userCfgPath, nil
		}
	}

	// Try local configs directory
	local := filepath.Join("configs", SettingsFile)
	if s, err := readFile(local); err == nil {
		return s, local, nil
	}

	// Use embedded default YAML
	if s, err := Parse(defaultSettingsYAML); err == nil {
		return s, SourceEmbedded, nil
	}
	return Default(), SourceBuiltin, nil // Fallback to hardcoded if embed fails
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("config: parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Default(), err
	}
	return s, nil
}

// Encode renders settings as YAML.
func Encode(s Settings) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("config: encode settings: %w", err)
	}
	return data, nil
}

func readFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".goblin", filename)
}
