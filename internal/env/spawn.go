package env

import (
	"github.com/vovakirdan/neonride/internal/config"
)

// Rand is the source of randomness for spawn decisions.
// *math/rand.Rand satisfies it; tests inject seeded or scripted sources.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Abstain explains why a spawn decision added nothing.
type Abstain int

const (
	AbstainNone       Abstain = iota // Obstacles were spawned
	AbstainNearWall                  // Every lane already blocked in the near band
	AbstainTooClose                  // An obstacle sits in the too-close band
	AbstainNoFreeLane                // Every lane is active or blocked near the horizon
)

// String returns a human-readable name for the abstain reason.
func (a Abstain) String() string {
	switch a {
	case AbstainNone:
		return "none"
	case AbstainNearWall:
		return "near_wall"
	case AbstainTooClose:
		return "too_close"
	case AbstainNoFreeLane:
		return "no_free_lane"
	default:
		return "unknown"
	}
}

// Decision is the outcome of one spawn attempt.
type Decision struct {
	Abstain Abstain
	Lanes   []Lane // Lanes that received an obstacle, in pick order
}

// Spawner decides when and where new obstacles appear.
type Spawner struct {
	cfg      *config.NeonRideConfig
	rng      Rand
	timer    int
	interval int
	last     Decision
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(cfg *config.NeonRideConfig, rng Rand) *Spawner {
	s := &Spawner{cfg: cfg, rng: rng}
	s.Reset()
	return s
}

// Reset restores the timer and the initial interval.
func (s *Spawner) Reset() {
	s.timer = 0
	s.interval = s.cfg.Spawn.InitialInterval
	s.last = Decision{}
}

// SetRand replaces the randomness source.
func (s *Spawner) SetRand(rng Rand) {
	s.rng = rng
}

// Timer returns the ticks counted since the last spawn decision.
func (s *Spawner) Timer() int {
	return s.timer
}

// Interval returns the number of ticks the timer must exceed before the next decision.
func (s *Spawner) Interval() int {
	return s.interval
}

// Last returns the most recent spawn decision.
func (s *Spawner) Last() Decision {
	return s.last
}

// Tick counts one tick and, once the timer exceeds the interval, makes a spawn
// decision and reseeds the interval. It reports whether a decision was made.
func (s *Spawner) Tick(reg *Registry) bool {
	s.timer++
	if s.timer <= s.interval {
		return false
	}

	s.last = s.Spawn(reg)
	s.timer = 0
	s.interval = s.nextInterval()
	return true
}

// Spawn runs the safety screens and adds one or two obstacles to free lanes.
// It never creates a state in which every lane is blocked in the near band.
func (s *Spawner) Spawn(reg *Registry) Decision {
	sp := s.cfg.Spawn

	// A full wall is already on its way; adding more can only make it worse
	if reg.OccupiedLanes(sp.NearBand.Min, sp.NearBand.Max).Full() {
		return Decision{Abstain: AbstainNearWall}
	}

	// Keep consecutive spawns from stacking too tightly
	if sp.TooClose && reg.AnyWithin(sp.TooCloseBand.Min, sp.TooCloseBand.Max) {
		return Decision{Abstain: AbstainTooClose}
	}

	free := s.FreeLanes(reg)
	if len(free) == 0 {
		return Decision{Abstain: AbstainNoFreeLane}
	}

	want := 1
	if s.rng.Float64() < sp.DoubleChance {
		want = 2
	}
	k := min(len(free), want)

	// Partial Fisher-Yates: uniform choice without repetition
	chosen := make([]Lane, 0, k)
	for i := 0; i < k; i++ {
		j := i + s.rng.Intn(len(free)-i)
		free[i], free[j] = free[j], free[i]
		chosen = append(chosen, free[i])
	}

	for _, lane := range chosen {
		reg.Add(Obstacle{
			Lane:  lane,
			Depth: s.depth(),
		})
	}
	return Decision{Abstain: AbstainNone, Lanes: chosen}
}

// FreeLanes returns, in lane order, the lanes with nothing beyond the active
// depth and nothing just below the spawn horizon.
func (s *Spawner) FreeLanes(reg *Registry) []Lane {
	sp := s.cfg.Spawn
	horizon := s.cfg.Physics.SpawnHorizon

	active := reg.OccupiedBeyond(sp.ActiveDepth)
	free := make([]Lane, 0, LaneCount)
	for _, lane := range Lanes {
		if active.Has(lane) {
			continue
		}
		if reg.LaneOccupied(lane, horizon-sp.FutureWindow, horizon) {
			continue
		}
		free = append(free, lane)
	}
	return free
}

// depth draws a spawn depth uniformly from the configured range.
func (s *Spawner) depth() float64 {
	lo, hi := s.cfg.Spawn.DepthMin, s.cfg.Spawn.DepthMax
	return lo + s.rng.Float64()*(hi-lo)
}

// nextInterval draws the next interval uniformly from [IntervalMin, IntervalMax].
func (s *Spawner) nextInterval() int {
	lo, hi := s.cfg.Spawn.IntervalMin, s.cfg.Spawn.IntervalMax
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}
