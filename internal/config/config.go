// Package config provides YAML-based profile loading for the Neon Ride engine.
// A profile is a named set of constants: spawn ranges, safety bands, reward
// terms and observation encoding. The presentation and training profiles
// share one engine and differ only here.
package config

import "errors"

// ErrUnknownProfile is returned when a profile name has no defaults.
var ErrUnknownProfile = errors.New("config: unknown profile")

// ErrProfileMismatch is returned when a config file names a different profile
// than the one it is loaded for.
var ErrProfileMismatch = errors.New("config: profile mismatch")

// Profile names a constant set.
type Profile string

const (
	ProfilePresentation Profile = "presentation"
	ProfileTraining     Profile = "training"
)

// Profiles lists every built-in profile in display order.
func Profiles() []Profile {
	return []Profile{ProfilePresentation, ProfileTraining}
}

// ParseProfile converts a CLI or wire string into a Profile.
func ParseProfile(s string) (Profile, error) {
	switch Profile(s) {
	case ProfilePresentation, ProfileTraining:
		return Profile(s), nil
	case "":
		return ProfilePresentation, nil
	default:
		return "", ErrUnknownProfile
	}
}

// NeonRideConfig contains all configuration for one engine profile.
type NeonRideConfig struct {
	Profile     Profile           `yaml:"profile"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Spawn       SpawnConfig       `yaml:"spawn"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Rewards     RewardsConfig     `yaml:"rewards"`
	Observation ObservationConfig `yaml:"observation"`
}

// PhysicsConfig defines how obstacles travel toward the player.
type PhysicsConfig struct {
	Speed        float64 `yaml:"speed"`         // Depth units removed per tick
	SpawnHorizon float64 `yaml:"spawn_horizon"` // Farthest depth an obstacle may spawn at
	NearHorizon  float64 `yaml:"near_horizon"`  // Obstacles at or below this depth are purged
}

// Band is an open depth interval (Min, Max).
type Band struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether d lies strictly inside the band.
func (b Band) Contains(d float64) bool {
	return d > b.Min && d < b.Max
}

// SpawnConfig defines spawn timing, placement and the safety screens.
type SpawnConfig struct {
	InitialInterval int     `yaml:"initial_interval"` // Interval used right after reset
	IntervalMin     int     `yaml:"interval_min"`     // Reseeded interval lower bound (inclusive)
	IntervalMax     int     `yaml:"interval_max"`     // Reseeded interval upper bound (inclusive)
	DepthMin        float64 `yaml:"depth_min"`        // Spawn depth lower bound
	DepthMax        float64 `yaml:"depth_max"`        // Spawn depth upper bound
	DoubleChance    float64 `yaml:"double_chance"`    // Probability of asking for two obstacles

	NearBand     Band    `yaml:"near_band"`      // All three lanes blocked here => abstain
	TooClose     bool    `yaml:"too_close"`      // Enable the too-close screen
	TooCloseBand Band    `yaml:"too_close_band"` // Any obstacle here => abstain (when enabled)
	ActiveDepth  float64 `yaml:"active_depth"`   // Lanes with obstacles beyond this are not free
	FutureWindow float64 `yaml:"future_window"`  // Lanes with obstacles within this of the horizon are not free
}

// ScoringConfig defines the pass threshold and the collision window.
type ScoringConfig struct {
	PassDepth       float64 `yaml:"pass_depth"`       // Obstacles below this depth count as passed
	CollisionWindow Band    `yaml:"collision_window"` // Co-lane obstacles here collide with the player
}

// RewardsConfig defines the numeric reward signal for an agent.
// The presentation profile zeroes these and relies on the score counter.
type RewardsConfig struct {
	Pass      float64 `yaml:"pass"`      // Granted once per passed obstacle
	Alive     float64 `yaml:"alive"`     // Granted every tick
	Collision float64 `yaml:"collision"` // Added once on the terminal tick (negative)

	Shaping        bool    `yaml:"shaping"`         // Enable proximity shaping
	ProximityDepth float64 `yaml:"proximity_depth"` // Shaping applies below this depth
	ProximityScale float64 `yaml:"proximity_scale"` // Same-lane penalty per depth unit
	ClearLane      float64 `yaml:"clear_lane"`      // Bonus per nearby obstacle in another lane
}

// PadMode selects how empty nearest-obstacle depth slots are filled.
type PadMode string

const (
	// PadRaw fills with the untransformed sentinel (the observation scale).
	PadRaw PadMode = "raw"
	// PadNormalized fills with the transformed sentinel, which is 0.
	PadNormalized PadMode = "normalized"
)

// Layout selects where the nearest-obstacle blocks sit in the vector.
type Layout string

const (
	// LayoutSlotted keeps nearest lanes at [3:8] and nearest depths at [8:13].
	LayoutSlotted Layout = "slotted"
	// LayoutReference packs n lanes, n depths, then 5-n zero pads and 5-n depth pads,
	// the order earlier trained policies expect.
	LayoutReference Layout = "reference"
)

// ObservationConfig defines the observation vector encoding.
type ObservationConfig struct {
	Scale      float64 `yaml:"scale"`       // Depth that maps to 0 proximity
	LaneCutoff float64 `yaml:"lane_cutoff"` // Per-lane signal ignores obstacles at or below this
	PadMode    PadMode `yaml:"pad_mode"`
	Layout     Layout  `yaml:"layout"`
}
