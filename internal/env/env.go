package env

import (
	"math/rand"

	"github.com/vovakirdan/neonride/internal/config"
)

// Status is the controller state.
type Status int

const (
	StatusReady    Status = iota // Accepting steps
	StatusTerminal               // A collision ended the episode; only Reset leaves this state
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// StepResult is returned by Env.Step after each tick.
type StepResult struct {
	Observation Observation
	Reward      float64 // Reward earned this tick (0 once terminal)
	Done        bool    // Whether the episode has ended
	Score       int     // Obstacles passed so far this episode
	Passed      int     // Obstacles passed this tick
}

// Env is the simulation controller. It owns the whole world state; concurrent
// episodes need separate instances.
type Env struct {
	cfg       config.NeonRideConfig
	registry  *Registry
	spawner   *Spawner
	evaluator *Evaluator
	encoder   *Encoder

	player      Lane
	status      Status
	ticks       int
	score       int
	totalReward float64
	last        Observation
}

// New creates an environment for the profile, drawing spawn randomness from rng.
// The environment starts in the reset state.
func New(cfg config.NeonRideConfig, rng Rand) *Env {
	e := &Env{
		cfg:      cfg,
		registry: NewRegistry(),
	}
	e.spawner = NewSpawner(&e.cfg, rng)
	e.evaluator = NewEvaluator(&e.cfg)
	e.encoder = NewEncoder(&e.cfg)
	e.Reset()
	return e
}

// NewSeeded creates an environment with a math/rand source seeded with seed.
func NewSeeded(cfg config.NeonRideConfig, seed int64) *Env {
	return New(cfg, rand.New(rand.NewSource(seed)))
}

// Reset restores the canonical start state: center lane, no obstacles,
// timer at zero. The randomness source keeps its position.
func (e *Env) Reset() Observation {
	e.registry.Reset()
	e.spawner.Reset()
	e.player = LaneCenter
	e.status = StatusReady
	e.ticks = 0
	e.score = 0
	e.totalReward = 0
	e.last = e.encoder.Encode(e.registry, e.player)
	return e.last
}

// Reseed replaces the randomness source with one seeded from seed.
// Call Reset afterwards for a reproducible episode.
func (e *Env) Reseed(seed int64) {
	e.spawner.SetRand(rand.New(rand.NewSource(seed)))
}

// Step advances the simulation by one tick.
// Out-of-range actions are treated as ActionStay. Once terminal, Step returns
// the last observation with zero reward until Reset is called.
func (e *Env) Step(a Action) StepResult {
	if e.status == StatusTerminal {
		return StepResult{Observation: e.last, Done: true, Score: e.score}
	}

	e.ticks++

	// Lane change
	if a.Valid() {
		e.player = e.player.Move(a)
	}

	// Spawn, then move everything closer
	e.spawner.Tick(e.registry)
	e.registry.Advance(e.cfg.Physics.Speed)

	// Score and collide before anything leaves the road
	out := e.evaluator.Evaluate(e.registry, e.player)
	e.registry.Purge(e.cfg.Physics.NearHorizon)

	if out.Collided {
		e.status = StatusTerminal
	}
	e.score += out.Passed
	e.totalReward += out.Reward
	e.last = e.encoder.Encode(e.registry, e.player)

	return StepResult{
		Observation: e.last,
		Reward:      out.Reward,
		Done:        e.status == StatusTerminal,
		Score:       e.score,
		Passed:      out.Passed,
	}
}

// Config returns the profile the environment runs with.
func (e *Env) Config() config.NeonRideConfig {
	return e.cfg
}

// Profile returns the profile name.
func (e *Env) Profile() config.Profile {
	return e.cfg.Profile
}

// Observation returns the most recent observation.
func (e *Env) Observation() Observation {
	return e.last
}

// PlayerLane returns the player's lane.
func (e *Env) PlayerLane() Lane {
	return e.player
}

// Obstacles returns a copy of the live obstacles ordered far to near.
func (e *Env) Obstacles() []Obstacle {
	return e.registry.Snapshot()
}

// Status returns the controller state.
func (e *Env) Status() Status {
	return e.status
}

// Done reports whether the episode has ended.
func (e *Env) Done() bool {
	return e.status == StatusTerminal
}

// Ticks returns the number of steps taken this episode.
func (e *Env) Ticks() int {
	return e.ticks
}

// Score returns the number of obstacles passed this episode.
func (e *Env) Score() int {
	return e.score
}

// TotalReward returns the reward accumulated this episode.
func (e *Env) TotalReward() float64 {
	return e.totalReward
}

// SpawnTimer returns the ticks since the last spawn decision.
func (e *Env) SpawnTimer() int {
	return e.spawner.Timer()
}

// SpawnInterval returns the current spawn interval.
func (e *Env) SpawnInterval() int {
	return e.spawner.Interval()
}

// LastSpawn returns the most recent spawn decision.
func (e *Env) LastSpawn() Decision {
	return e.spawner.Last()
}
