package env

import "github.com/vovakirdan/neonride/internal/config"

// Outcome is what one tick of evaluation produced.
type Outcome struct {
	Reward   float64 // Reward earned this tick
	Passed   int     // Obstacles newly marked as scored
	Collided bool    // An obstacle overlapped the player
}

// Evaluator applies the passing, shaping and collision rules.
type Evaluator struct {
	cfg *config.NeonRideConfig
}

// NewEvaluator creates an evaluator for the given profile.
func NewEvaluator(cfg *config.NeonRideConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate runs once per tick after obstacles advanced and before they are purged.
// Passed obstacles are marked scored in place; a scored obstacle is never
// rewarded again.
func (e *Evaluator) Evaluate(reg *Registry, player Lane) Outcome {
	rw := e.cfg.Rewards
	sc := e.cfg.Scoring

	out := Outcome{Reward: rw.Alive}
	reg.each(func(o *Obstacle) {
		if rw.Shaping && o.Depth < rw.ProximityDepth {
			if o.Lane == player {
				out.Reward -= (rw.ProximityDepth - o.Depth) * rw.ProximityScale
			} else {
				out.Reward += rw.ClearLane
			}
		}

		if !o.Scored && o.Depth < sc.PassDepth && o.Lane != player {
			o.Scored = true
			out.Passed++
			out.Reward += rw.Pass
		}

		if o.Lane == player && sc.CollisionWindow.Contains(o.Depth) {
			out.Collided = true
		}
	})

	// One collision ends the episode; more do not add to the penalty
	if out.Collided {
		out.Reward += rw.Collision
	}
	return out
}
