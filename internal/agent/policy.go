// Package agent drives Neon Ride environments with automated policies.
// It runs single episodes, evaluates a policy over many seeded episodes on a
// bounded worker pool, and summarizes the results.
package agent

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/vovakirdan/neonride/internal/env"
)

// ErrUnknownPolicy is returned by NewPolicy for an unregistered name.
var ErrUnknownPolicy = errors.New("agent: unknown policy")

// Policy maps an observation to an action.
// Implementations need not be safe for concurrent use; Evaluate builds one
// policy per episode.
type Policy interface {
	Name() string
	Act(obs env.Observation) env.Action
}

// Heuristic steers toward the lane with the lowest proximity signal.
// It moves one lane per tick, never through a lane that looks worse than the
// current one, and stays on ties.
type Heuristic struct{}

// Name returns "heuristic".
func (Heuristic) Name() string { return "heuristic" }

// Act picks an action from the observation alone.
func (Heuristic) Act(obs env.Observation) env.Action {
	cur := obs.PlayerLane()
	here := obs.LaneProximity(cur)

	target := cur
	best := here
	for _, l := range env.Lanes {
		p := obs.LaneProximity(l)
		if p < best || (p == best && laneDistance(l, cur) < laneDistance(target, cur)) {
			target, best = l, p
		}
	}
	if target == cur {
		return env.ActionStay
	}

	a := env.ActionRight
	if target < cur {
		a = env.ActionLeft
	}
	next := cur.Move(a)
	if next != target && obs.LaneProximity(next) >= here {
		return env.ActionStay
	}
	return a
}

func laneDistance(a, b env.Lane) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// Stay never moves. It is the baseline the other policies are compared to.
type Stay struct{}

// Name returns "stay".
func (Stay) Name() string { return "stay" }

// Act always returns ActionStay.
func (Stay) Act(env.Observation) env.Action { return env.ActionStay }

// Random picks uniformly among the three actions.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random policy with its own seeded source.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Name returns "random".
func (r *Random) Name() string { return "random" }

// Act returns a uniformly random action.
func (r *Random) Act(env.Observation) env.Action {
	return env.Action(r.rng.Intn(env.ActionCount))
}

// Scripted replays a fixed action list, then stays.
type Scripted struct {
	actions []env.Action
	pos     int
}

// NewScripted creates a policy that replays actions in order.
func NewScripted(actions ...env.Action) *Scripted {
	return &Scripted{actions: actions}
}

// Name returns "scripted".
func (s *Scripted) Name() string { return "scripted" }

// Act returns the next scripted action.
func (s *Scripted) Act(env.Observation) env.Action {
	if s.pos >= len(s.actions) {
		return env.ActionStay
	}
	a := s.actions[s.pos]
	s.pos++
	return a
}

// PolicyFactory builds a fresh policy for an episode seed.
type PolicyFactory func(seed int64) Policy

var policies = map[string]PolicyFactory{
	"heuristic": func(int64) Policy { return Heuristic{} },
	"stay":      func(int64) Policy { return Stay{} },
	"random":    func(seed int64) Policy { return NewRandom(seed) },
}

// PolicyNames lists the names accepted by NewPolicy, sorted.
func PolicyNames() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupPolicy returns the factory for a named policy.
func LookupPolicy(name string) (PolicyFactory, error) {
	f, ok := policies[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownPolicy, name)
	}
	return f, nil
}

// NewPolicy builds a named policy for the given seed.
func NewPolicy(name string, seed int64) (Policy, error) {
	f, err := LookupPolicy(name)
	if err != nil {
		return nil, err
	}
	return f(seed), nil
}
