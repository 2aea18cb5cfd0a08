package env

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/neonride/internal/config"
)

func TestResetCanonicalState(t *testing.T) {
	e := NewSeeded(config.DefaultTrainingConfig(), 7)

	// Dirty the state first
	for i := 0; i < 300; i++ {
		if e.Step(ActionLeft).Done {
			break
		}
	}

	obs := e.Reset()

	if e.PlayerLane() != LaneCenter {
		t.Errorf("player lane = %d, want center", e.PlayerLane())
	}
	if len(e.Obstacles()) != 0 {
		t.Errorf("obstacles = %d, want 0", len(e.Obstacles()))
	}
	if e.SpawnTimer() != 0 || e.SpawnInterval() != 75 {
		t.Errorf("spawn timer/interval = %d/%d, want 0/75", e.SpawnTimer(), e.SpawnInterval())
	}
	if e.Done() || e.Status() != StatusReady {
		t.Error("Reset should leave the env ready")
	}
	if e.Ticks() != 0 || e.Score() != 0 || e.TotalReward() != 0 {
		t.Error("Reset should clear counters")
	}
	for _, l := range Lanes {
		if obs.LaneProximity(l) != 0 {
			t.Errorf("lane %d proximity after reset = %f, want 0", l, obs.LaneProximity(l))
		}
	}
}

func TestStepCollisionTraining(t *testing.T) {
	e := newTestEnv(config.DefaultTrainingConfig(), LaneLeft, Obstacle{Lane: LaneLeft, Depth: 2.0})

	res := e.Step(ActionStay)

	if !res.Done {
		t.Fatal("expected the episode to end")
	}
	// alive + same-lane shaping -(5-1.9)*0.5 + collision
	if want := 0.05 - 1.55 - 10; !approxEqual(res.Reward, want) {
		t.Errorf("Reward = %f, want %f", res.Reward, want)
	}
	if e.Status() != StatusTerminal {
		t.Errorf("status = %v, want terminal", e.Status())
	}
}

func TestStepCollisionPresentation(t *testing.T) {
	e := newTestEnv(config.DefaultPresentationConfig(), LaneLeft, Obstacle{Lane: LaneLeft, Depth: 2.0})

	res := e.Step(ActionStay)

	if !res.Done {
		t.Fatal("expected game over")
	}
	if res.Reward != 0 {
		t.Errorf("presentation reward = %f, want 0", res.Reward)
	}
}

func TestStepDodgeAvoidsCollision(t *testing.T) {
	e := newTestEnv(config.DefaultTrainingConfig(), LaneLeft, Obstacle{Lane: LaneLeft, Depth: 2.0})

	res := e.Step(ActionRight)

	if res.Done {
		t.Fatal("moving out of the lane before the check should avoid the collision")
	}
	if e.PlayerLane() != LaneCenter {
		t.Errorf("player lane = %d, want center", e.PlayerLane())
	}
}

func TestTerminalStepIsNoop(t *testing.T) {
	e := newTestEnv(config.DefaultTrainingConfig(), LaneLeft, Obstacle{Lane: LaneLeft, Depth: 2.0})
	final := e.Step(ActionStay)

	for i := 0; i < 3; i++ {
		res := e.Step(ActionRight)
		if !res.Done || res.Reward != 0 {
			t.Fatalf("terminal step %d = %+v, want done with zero reward", i, res)
		}
		if res.Observation != final.Observation {
			t.Error("terminal step should return the last observation")
		}
	}
	if e.PlayerLane() != LaneLeft || e.Ticks() != 1 {
		t.Error("terminal steps must not change the world")
	}

	e.Reset()
	if e.Done() {
		t.Error("Reset should leave the terminal state")
	}
}

func TestPassScoredOnce(t *testing.T) {
	e := newTestEnv(config.DefaultTrainingConfig(), LaneLeft, Obstacle{Lane: LaneRight, Depth: 1.55})

	first := e.Step(ActionStay)
	if first.Passed != 1 || first.Score != 1 {
		t.Fatalf("first step passed=%d score=%d, want 1/1", first.Passed, first.Score)
	}
	if first.Reward < 5 {
		t.Errorf("first step reward %f should include the pass reward", first.Reward)
	}

	for i := 0; i < 10; i++ {
		res := e.Step(ActionStay)
		if res.Passed != 0 {
			t.Fatalf("step %d passed the obstacle again", i)
		}
		if res.Score != 1 {
			t.Fatalf("score = %d, want 1", res.Score)
		}
	}
	if len(e.Obstacles()) != 0 {
		t.Error("passed obstacle should have been purged")
	}
}

func TestOutOfRangeActionIsStay(t *testing.T) {
	e := NewSeeded(config.DefaultPresentationConfig(), 1)
	e.Step(Action(-1))
	e.Step(Action(99))
	if e.PlayerLane() != LaneCenter {
		t.Errorf("player lane = %d, invalid actions should be ignored", e.PlayerLane())
	}
}

func TestDeterminism(t *testing.T) {
	for _, cfg := range []config.NeonRideConfig{config.DefaultTrainingConfig(), config.DefaultPresentationConfig()} {
		actions := make([]Action, 3000)
		pick := rand.New(rand.NewSource(11))
		for i := range actions {
			actions[i] = Action(pick.Intn(ActionCount))
		}

		run := func() []StepResult {
			e := NewSeeded(cfg, 12345)
			out := make([]StepResult, 0, len(actions))
			for _, a := range actions {
				res := e.Step(a)
				out = append(out, res)
				if res.Done {
					e.Reset()
				}
			}
			return out
		}

		r1, r2 := run(), run()
		for i := range r1 {
			if r1[i] != r2[i] {
				t.Fatalf("%s: runs diverged at step %d: %+v vs %+v", cfg.Profile, i, r1[i], r2[i])
			}
		}
	}
}

func TestInvariantsHoldOverRandomPlay(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		e := NewSeeded(config.DefaultTrainingConfig(), seed)
		pick := rand.New(rand.NewSource(seed))

		for tick := 0; tick < 3000; tick++ {
			res := e.Step(Action(pick.Intn(ActionCount)))

			if !e.PlayerLane().Valid() {
				t.Fatalf("seed %d: player lane %d escaped the road", seed, e.PlayerLane())
			}
			for _, o := range e.Obstacles() {
				if !o.Lane.Valid() {
					t.Fatalf("seed %d: obstacle lane %d escaped the road", seed, o.Lane)
				}
				if o.Depth <= e.Config().Physics.NearHorizon {
					t.Fatalf("seed %d: obstacle at depth %f survived the purge", seed, o.Depth)
				}
			}

			if len(res.Observation) != ObservationSize {
				t.Fatalf("observation length %d", len(res.Observation))
			}
			for i, v := range res.Observation {
				if v >= 0 && v <= 1 {
					continue
				}
				// Only raw-padded depth slots may leave [0, 1]
				if i >= obsNearestDepth && i < obsPlayerLane && v == e.Config().Observation.Scale {
					continue
				}
				t.Fatalf("seed %d: observation slot %d = %f", seed, i, v)
			}

			if res.Done {
				e.Reset()
			}
		}
	}
}

func TestDepthDecreasesEveryTick(t *testing.T) {
	e := newTestEnv(config.DefaultPresentationConfig(), LaneCenter,
		Obstacle{Lane: LaneLeft, Depth: 9},
		Obstacle{Lane: LaneRight, Depth: 5},
	)

	before := e.Obstacles()
	e.Step(ActionStay)
	after := e.Obstacles()

	if len(after) != len(before) {
		t.Fatalf("obstacle count changed from %d to %d", len(before), len(after))
	}
	for i := range after {
		if !approxEqual(before[i].Depth-after[i].Depth, 0.1) {
			t.Errorf("obstacle %d moved %f, want 0.1", i, before[i].Depth-after[i].Depth)
		}
	}
}

func TestObstaclesAreCopies(t *testing.T) {
	e := newTestEnv(config.DefaultPresentationConfig(), LaneCenter, Obstacle{Lane: LaneLeft, Depth: 9})

	obs := e.Obstacles()
	obs[0].Depth = 1

	if e.Obstacles()[0].Depth != 9 {
		t.Error("Obstacles() must not expose the registry")
	}
}

func TestReseedReproducesEpisode(t *testing.T) {
	cfg := config.DefaultTrainingConfig()
	e := NewSeeded(cfg, 5)

	play := func() (int, float64) {
		for {
			res := e.Step(ActionStay)
			if res.Done || e.Ticks() >= 5000 {
				return e.Ticks(), e.TotalReward()
			}
		}
	}

	ticks1, reward1 := play()
	e.Reseed(5)
	e.Reset()
	ticks2, reward2 := play()

	if ticks1 != ticks2 || reward1 != reward2 {
		t.Errorf("reseeded episode differs: %d/%f vs %d/%f", ticks1, reward1, ticks2, reward2)
	}
}
