package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the configuration for a profile.
// Search order: customPath -> ~/.neonride/configs/<profile>.yaml -> ./configs/<profile>.yaml -> embedded default
//
// A custom path is authoritative: read, parse and validation errors are returned.
// Files found by the search are skipped when broken so a stale user file never
// prevents the game from starting.
func Load(profile Profile, customPath string) (NeonRideConfig, error) {
	if _, err := ParseProfile(string(profile)); err != nil {
		return NeonRideConfig{}, fmt.Errorf("%w %q", ErrUnknownProfile, profile)
	}
	filename := string(profile) + ".yaml"

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return NeonRideConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(profile, data)
		if err != nil {
			return NeonRideConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(profile, data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", filename)); err == nil {
		if cfg, err := Parse(profile, data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(profile, GetDefaultYAML(profile))
	if err != nil {
		return Default(profile), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of the profile's hard-coded defaults and validates
// the result. Unknown keys are rejected so typos do not silently fall back.
func Parse(profile Profile, data []byte) (NeonRideConfig, error) {
	cfg := Default(profile)
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, cfg.Validate()
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return NeonRideConfig{}, fmt.Errorf("failed to parse: %w", err)
	}

	// A file may omit its profile, but it cannot switch to another one
	// while keeping the requested profile's defaults underneath.
	if cfg.Profile != "" && cfg.Profile != profile {
		return NeonRideConfig{}, fmt.Errorf("%w: file declares %q, requested %q", ErrProfileMismatch, cfg.Profile, profile)
	}
	cfg.Profile = profile
	if err := cfg.Validate(); err != nil {
		return NeonRideConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".neonride", "configs", filename)
}
