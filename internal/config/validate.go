package config

import (
	"errors"
	"fmt"
)

// Validate checks that the constants are coherent and that the spawn rules
// keep at least one lane escapable. Every violation is reported.
func (c NeonRideConfig) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("config: "+format, args...))
	}

	if _, err := ParseProfile(string(c.Profile)); err != nil {
		add("unknown profile %q", c.Profile)
	}

	p := c.Physics
	if p.Speed <= 0 {
		add("physics.speed must be positive, got %v", p.Speed)
	}
	if p.SpawnHorizon <= p.NearHorizon {
		add("physics.spawn_horizon (%v) must exceed near_horizon (%v)", p.SpawnHorizon, p.NearHorizon)
	}

	s := c.Spawn
	if s.InitialInterval < 0 {
		add("spawn.initial_interval must not be negative, got %d", s.InitialInterval)
	}
	if s.IntervalMin < 1 || s.IntervalMax < s.IntervalMin {
		add("spawn interval range [%d, %d] is invalid", s.IntervalMin, s.IntervalMax)
	}
	if s.DepthMin > s.DepthMax {
		add("spawn depth range [%v, %v] is inverted", s.DepthMin, s.DepthMax)
	}
	if s.DoubleChance < 0 || s.DoubleChance > 1 {
		add("spawn.double_chance must be in [0, 1], got %v", s.DoubleChance)
	}
	if s.NearBand.Min >= s.NearBand.Max {
		add("spawn.near_band (%v, %v) is empty", s.NearBand.Min, s.NearBand.Max)
	}
	if s.TooClose && s.TooCloseBand.Min >= s.TooCloseBand.Max {
		add("spawn.too_close_band (%v, %v) is empty", s.TooCloseBand.Min, s.TooCloseBand.Max)
	}
	if s.FutureWindow < 0 {
		add("spawn.future_window must not be negative, got %v", s.FutureWindow)
	}

	// Fresh obstacles must land behind the near band, otherwise a spawn could
	// complete a wall the player has no time to leave.
	if s.DepthMin < s.NearBand.Max {
		add("spawn.depth_min (%v) must not be inside near_band (max %v)", s.DepthMin, s.NearBand.Max)
	}
	if s.DepthMax > p.SpawnHorizon {
		add("spawn.depth_max (%v) exceeds physics.spawn_horizon (%v)", s.DepthMax, p.SpawnHorizon)
	}
	if s.ActiveDepth < s.NearBand.Max {
		add("spawn.active_depth (%v) must not be inside near_band (max %v)", s.ActiveDepth, s.NearBand.Max)
	}

	sc := c.Scoring
	if sc.CollisionWindow.Min >= sc.CollisionWindow.Max {
		add("scoring.collision_window (%v, %v) is empty", sc.CollisionWindow.Min, sc.CollisionWindow.Max)
	}
	if sc.CollisionWindow.Max > s.NearBand.Max {
		add("scoring.collision_window max (%v) must not exceed spawn.near_band max (%v)",
			sc.CollisionWindow.Max, s.NearBand.Max)
	}

	o := c.Observation
	if o.Scale <= 0 {
		add("observation.scale must be positive, got %v", o.Scale)
	}
	if o.PadMode != PadRaw && o.PadMode != PadNormalized {
		add("observation.pad_mode must be %q or %q, got %q", PadRaw, PadNormalized, o.PadMode)
	}
	if o.Layout != LayoutSlotted && o.Layout != LayoutReference {
		add("observation.layout must be %q or %q, got %q", LayoutSlotted, LayoutReference, o.Layout)
	}

	return errors.Join(errs...)
}
