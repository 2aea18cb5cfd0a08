package config

import (
	_ "embed"
)

//go:embed defaults/presentation.yaml
var defaultPresentationYAML []byte

//go:embed defaults/training.yaml
var defaultTrainingYAML []byte

// Default returns the hard-coded configuration for a profile.
// Unknown profiles fall back to the presentation profile.
func Default(p Profile) NeonRideConfig {
	if p == ProfileTraining {
		return DefaultTrainingConfig()
	}
	return DefaultPresentationConfig()
}

// DefaultPresentationConfig returns the profile used by the human-driven game.
func DefaultPresentationConfig() NeonRideConfig {
	cfg := baseConfig()
	cfg.Profile = ProfilePresentation
	cfg.Spawn.DepthMin = 10
	cfg.Spawn.DepthMax = 16
	cfg.Spawn.TooClose = false
	// Score only, no numeric reward
	cfg.Rewards = RewardsConfig{}
	return cfg
}

// DefaultTrainingConfig returns the profile used by automated agents.
func DefaultTrainingConfig() NeonRideConfig {
	cfg := baseConfig()
	cfg.Profile = ProfileTraining
	cfg.Spawn.DepthMin = 6
	cfg.Spawn.DepthMax = 11
	cfg.Spawn.TooClose = true
	cfg.Rewards = RewardsConfig{
		Pass:           5,
		Alive:          0.05,
		Collision:      -10,
		Shaping:        true,
		ProximityDepth: 5,
		ProximityScale: 0.5,
		ClearLane:      0.05,
	}
	return cfg
}

// baseConfig holds the constants both profiles share.
func baseConfig() NeonRideConfig {
	return NeonRideConfig{
		Physics: PhysicsConfig{
			Speed:        0.1,
			SpawnHorizon: 16,
			NearHorizon:  1,
		},
		Spawn: SpawnConfig{
			InitialInterval: 75,
			IntervalMin:     60,
			IntervalMax:     90,
			DoubleChance:    1.0 / 3.0,
			NearBand:        Band{Min: 2, Max: 6},
			TooCloseBand:    Band{Min: 6, Max: 9},
			ActiveDepth:     6,
			FutureWindow:    3,
		},
		Scoring: ScoringConfig{
			PassDepth:       1.5,
			CollisionWindow: Band{Min: 1.5, Max: 2.5},
		},
		Observation: ObservationConfig{
			Scale:      10,
			LaneCutoff: 1.2,
			PadMode:    PadRaw,
			Layout:     LayoutSlotted,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a profile.
func GetDefaultYAML(p Profile) []byte {
	switch p {
	case ProfilePresentation:
		return defaultPresentationYAML
	case ProfileTraining:
		return defaultTrainingYAML
	default:
		return nil
	}
}
