// Package neonride implements the Neon Ride terminal game on top of the
// environment engine. The player steers a bike across three lanes while
// obstacles rush toward them in pseudo-3D.
package neonride

import (
	"github.com/vovakirdan/neonride/internal/agent"
	"github.com/vovakirdan/neonride/internal/config"
	"github.com/vovakirdan/neonride/internal/core"
	"github.com/vovakirdan/neonride/internal/env"
	"github.com/vovakirdan/neonride/internal/registry"
)

// Game IDs.
const (
	GameID          = "neonride"
	AutopilotGameID = "neonride_autopilot"
)

// bikeEase is the fraction of the remaining distance the bike slides per tick.
const bikeEase = 0.3

// Game adapts an env.Env to the platform's game interface.
type Game struct {
	id          string
	title       string
	description string
	profile     config.Profile
	pilot       agent.PolicyFactory // nil when driven by the keyboard

	env     *env.Env
	policy  agent.Policy
	proj    Projector
	runtime core.RuntimeConfig
	paused  bool
	bikeX   float64
	lastRew float64
}

// configPath stores the custom config path set via CLI
var configPath string

// SetConfigPath sets the custom profile YAML used by subsequent Resets.
func SetConfigPath(path string) {
	configPath = path
}

func init() {
	registry.Register(GameID, func() registry.Game { return New() })
	registry.Register(AutopilotGameID, func() registry.Game { return NewAutopilot() })
}

// New creates the keyboard-driven game on the presentation profile.
func New() *Game {
	return &Game{
		id:          GameID,
		title:       "Neon Ride",
		description: "Dodge the neon blocks, three lanes, one bike",
		profile:     config.ProfilePresentation,
	}
}

// NewAutopilot creates a game on the training profile driven by the
// heuristic policy, for watching what an agent sees.
func NewAutopilot() *Game {
	return &Game{
		id:          AutopilotGameID,
		title:       "Neon Ride Autopilot",
		description: "Watch the heuristic agent ride the training profile",
		profile:     config.ProfileTraining,
		pilot:       func(int64) agent.Policy { return agent.Heuristic{} },
	}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return g.title
}

// Description returns the menu blurb.
func (g *Game) Description() string {
	return g.description
}

// Reset starts a new ride with a fresh environment seeded from the runtime.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.Load(g.profile, configPath)
	if err != nil {
		cfg = config.Default(g.profile)
	}

	g.env = env.NewSeeded(cfg, runtime.Seed)
	if g.pilot != nil {
		g.policy = g.pilot(runtime.Seed)
	}
	g.proj = NewProjector(runtime.ScreenW, runtime.ScreenH, cfg.Physics.SpawnHorizon)
	g.bikeX = g.proj.LaneX(g.env.PlayerLane(), 0)
	g.paused = false
	g.lastRew = 0
}

// Resize rebuilds the projection for a new screen size without touching the ride.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	if g.env == nil {
		return
	}
	g.proj = NewProjector(w, h, g.env.Config().Physics.SpawnHorizon)
	g.bikeX = g.proj.LaneX(g.env.PlayerLane(), 0)
}

// Step advances the ride by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.env.Done() {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	res := g.env.Step(g.action(in))
	g.lastRew = res.Reward

	target := g.proj.LaneX(g.env.PlayerLane(), 0)
	g.bikeX += (target - g.bikeX) * bikeEase

	return core.StepResult{State: g.State()}
}

// action resolves this tick's engine action from the pilot or the keyboard.
func (g *Game) action(in core.InputFrame) env.Action {
	if g.policy != nil {
		return g.policy.Act(g.env.Observation())
	}
	switch in.Steer() {
	case -1:
		return env.ActionLeft
	case 1:
		return env.ActionRight
	default:
		return env.ActionStay
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.env == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.env.Score(),
		Reward:   g.env.TotalReward(),
		Ticks:    g.env.Ticks(),
		GameOver: g.env.Done(),
		Paused:   g.paused,
	}
}
