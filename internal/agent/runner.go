package agent

import (
	"context"

	"github.com/google/uuid"

	"github.com/vovakirdan/neonride/internal/config"
	"github.com/vovakirdan/neonride/internal/env"
)

// DefaultMaxSteps caps an episode when RunOptions.MaxSteps is zero.
const DefaultMaxSteps = 10000

// EndReason records why an episode stopped.
type EndReason string

const (
	EndCollision EndReason = "collision"
	EndMaxSteps  EndReason = "max_steps"
	EndCanceled  EndReason = "canceled"
)

// Environment is the part of env.Env the runner needs.
type Environment interface {
	Reset() env.Observation
	Step(a env.Action) env.StepResult
	Profile() config.Profile
}

// Transition is one recorded step.
type Transition struct {
	Observation env.Observation `json:"observation"`
	Action      env.Action      `json:"action"`
	Reward      float64         `json:"reward"`
	Done        bool            `json:"done"`
}

// Episode summarizes one Reset to terminal run.
type Episode struct {
	ID          uuid.UUID      `json:"id"`
	Profile     config.Profile `json:"profile"`
	Policy      string         `json:"policy"`
	Seed        int64          `json:"seed"`
	Ticks       int            `json:"ticks"`
	Score       int            `json:"score"`
	TotalReward float64        `json:"total_reward"`
	EndReason   EndReason      `json:"end_reason"`
	Trajectory  []Transition   `json:"trajectory,omitempty"`
}

// RunOptions controls a single episode.
type RunOptions struct {
	MaxSteps int   // Step cap; 0 means DefaultMaxSteps
	Seed     int64 // Recorded on the episode; the caller seeds the environment
	Record   bool  // Keep the full trajectory
}

// RunEpisode resets e and steps it with p until a collision, the step cap,
// or ctx cancellation. A canceled episode is returned together with ctx.Err().
func RunEpisode(ctx context.Context, e Environment, p Policy, opts RunOptions) (Episode, error) {
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	ep := Episode{
		ID:        uuid.New(),
		Profile:   e.Profile(),
		Policy:    p.Name(),
		Seed:      opts.Seed,
		EndReason: EndMaxSteps,
	}

	obs := e.Reset()
	for ep.Ticks < maxSteps {
		if err := ctx.Err(); err != nil {
			ep.EndReason = EndCanceled
			return ep, err
		}

		a := p.Act(obs)
		res := e.Step(a)
		ep.Ticks++
		ep.Score = res.Score
		ep.TotalReward += res.Reward
		if opts.Record {
			ep.Trajectory = append(ep.Trajectory, Transition{
				Observation: obs,
				Action:      a,
				Reward:      res.Reward,
				Done:        res.Done,
			})
		}
		obs = res.Observation

		if res.Done {
			ep.EndReason = EndCollision
			break
		}
	}
	return ep, nil
}
