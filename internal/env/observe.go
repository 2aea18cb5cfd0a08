package env

import (
	"github.com/vovakirdan/neonride/internal/config"
	"github.com/vovakirdan/neonride/internal/core"
)

// Observation layout.
const (
	ObservationSize = 14
	NearestCount    = 5

	obsLaneProximity = 0
	obsNearestLane   = obsLaneProximity + LaneCount
	obsNearestDepth  = obsNearestLane + NearestCount
	obsPlayerLane    = obsNearestDepth + NearestCount
)

// Observation is the fixed-length numeric summary handed to decision makers.
// In the slotted layout:
//
//	[0:3]   per-lane proximity of the closest obstacle, 0 = clear, 1 = imminent
//	[3:8]   lane/2 of the five nearest obstacles, zero padded
//	[8:13]  proximity of the same five obstacles, padded per the profile's pad mode
//	[13]    player lane/2
//
// The reference layout fills [3:13] with n lanes, n proximities, 5-n zeros
// and 5-n depth pads. The two agree when n is 0 or 5.
type Observation [ObservationSize]float64

// LaneProximity returns the proximity signal for a lane.
func (o Observation) LaneProximity(l Lane) float64 {
	if !l.Valid() {
		return 0
	}
	return o[obsLaneProximity+int(l)]
}

// NearestLane returns the lane slot i (0..4) of the nearest-obstacle block.
// Slot accessors read the slotted layout.
func (o Observation) NearestLane(i int) float64 {
	return o[obsNearestLane+i]
}

// NearestDepth returns the depth slot i (0..4) of the nearest-obstacle block.
func (o Observation) NearestDepth(i int) float64 {
	return o[obsNearestDepth+i]
}

// PlayerLane returns the player's lane decoded from the last slot.
func (o Observation) PlayerLane() Lane {
	return Lane(core.ClampF(o[obsPlayerLane]*2, 0, LaneCount-1) + 0.5)
}

// Slice returns the observation as a slice, the shape neural networks consume.
func (o Observation) Slice() []float64 {
	out := make([]float64, ObservationSize)
	copy(out, o[:])
	return out
}

// Encoder projects world state into an Observation.
type Encoder struct {
	cfg *config.NeonRideConfig
}

// NewEncoder creates an encoder for the given profile.
func NewEncoder(cfg *config.NeonRideConfig) *Encoder {
	return &Encoder{cfg: cfg}
}

// Encode builds the observation for the current registry and player lane.
func (e *Encoder) Encode(reg *Registry, player Lane) Observation {
	oc := e.cfg.Observation
	var obs Observation

	// Closest obstacle per lane, ignoring ones already at the player
	closest := [LaneCount]float64{oc.Scale, oc.Scale, oc.Scale}
	reg.each(func(o *Obstacle) {
		if o.Depth > oc.LaneCutoff && o.Depth < closest[o.Lane] {
			closest[o.Lane] = o.Depth
		}
	})
	for i, d := range closest {
		obs[obsLaneProximity+i] = e.proximity(d)
	}

	nearest := reg.Nearest(NearestCount)
	n := len(nearest)
	laneAt, depthAt, padAt := obsNearestLane, obsNearestDepth, obsNearestDepth+n
	if oc.Layout == config.LayoutReference {
		depthAt = obsNearestLane + n
		padAt = obsNearestDepth + n
	}
	for i, o := range nearest {
		obs[laneAt+i] = float64(o.Lane) / 2
		obs[depthAt+i] = e.proximity(o.Depth)
	}
	// Lane pads stay zero; only depth pads are written
	for i := padAt; i < obsPlayerLane; i++ {
		obs[i] = e.pad()
	}

	obs[obsPlayerLane] = float64(player) / 2
	return obs
}

// proximity maps a depth to [0, 1], 1 meaning at the player.
func (e *Encoder) proximity(depth float64) float64 {
	return core.ClampF(1-depth/e.cfg.Observation.Scale, 0, 1)
}

// pad returns the filler for an empty nearest-depth slot.
func (e *Encoder) pad() float64 {
	if e.cfg.Observation.PadMode == config.PadNormalized {
		return e.proximity(e.cfg.Observation.Scale)
	}
	return e.cfg.Observation.Scale
}
