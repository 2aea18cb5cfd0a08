package env

import "testing"

func TestEvaluatePassRewardsOnce(t *testing.T) {
	reg := NewRegistry()
	reg.Add(Obstacle{Lane: LaneRight, Depth: 1.45})
	ev := NewEvaluator(trainingCfg())

	first := ev.Evaluate(reg, LaneLeft)
	if first.Passed != 1 {
		t.Fatalf("Passed = %d, want 1", first.Passed)
	}
	// alive + clear lane shaping + pass
	if want := 0.05 + 0.05 + 5; !approxEqual(first.Reward, want) {
		t.Errorf("Reward = %f, want %f", first.Reward, want)
	}
	if !reg.Snapshot()[0].Scored {
		t.Error("obstacle should be marked scored")
	}

	second := ev.Evaluate(reg, LaneLeft)
	if second.Passed != 0 {
		t.Errorf("scored obstacle passed again: Passed = %d", second.Passed)
	}
}

func TestEvaluateNoPassInPlayerLane(t *testing.T) {
	reg := NewRegistry()
	reg.Add(Obstacle{Lane: LaneCenter, Depth: 1.2})

	out := NewEvaluator(presentationCfg()).Evaluate(reg, LaneCenter)
	if out.Passed != 0 || reg.Snapshot()[0].Scored {
		t.Error("obstacle in the player's lane must not score")
	}
	if out.Collided {
		t.Error("depth 1.2 is below the collision window")
	}
}

func TestEvaluateProximityShaping(t *testing.T) {
	reg := NewRegistry()
	reg.Add(Obstacle{Lane: LaneLeft, Depth: 4})   // same lane: -(5-4)*0.5
	reg.Add(Obstacle{Lane: LaneRight, Depth: 3})  // other lane: +0.05
	reg.Add(Obstacle{Lane: LaneCenter, Depth: 8}) // too far for shaping

	out := NewEvaluator(trainingCfg()).Evaluate(reg, LaneLeft)
	if want := 0.05 - 0.5 + 0.05; !approxEqual(out.Reward, want) {
		t.Errorf("Reward = %f, want %f", out.Reward, want)
	}
}

func TestEvaluateCollisionPenaltyOnce(t *testing.T) {
	cfg := trainingCfg()
	cfg.Rewards.Shaping = false

	reg := NewRegistry()
	reg.Add(Obstacle{Lane: LaneCenter, Depth: 1.9})
	reg.Add(Obstacle{Lane: LaneCenter, Depth: 2.2})

	out := NewEvaluator(cfg).Evaluate(reg, LaneCenter)
	if !out.Collided {
		t.Fatal("expected a collision")
	}
	if want := 0.05 - 10; !approxEqual(out.Reward, want) {
		t.Errorf("Reward = %f, want %f (penalty applied once)", out.Reward, want)
	}
}

func TestEvaluateCollisionWindowBounds(t *testing.T) {
	ev := NewEvaluator(presentationCfg())
	for _, d := range []float64{1.5, 2.5, 3} {
		reg := NewRegistry()
		reg.Add(Obstacle{Lane: LaneCenter, Depth: d})
		if ev.Evaluate(reg, LaneCenter).Collided {
			t.Errorf("depth %v should not collide", d)
		}
	}
}

func TestEvaluatePresentationHasNoNumericReward(t *testing.T) {
	reg := NewRegistry()
	reg.Add(Obstacle{Lane: LaneRight, Depth: 1.4})
	reg.Add(Obstacle{Lane: LaneLeft, Depth: 2})

	out := NewEvaluator(presentationCfg()).Evaluate(reg, LaneLeft)
	if !out.Collided || out.Passed != 1 {
		t.Fatalf("outcome = %+v, want a pass and a collision", out)
	}
	if out.Reward != 0 {
		t.Errorf("presentation reward = %f, want 0", out.Reward)
	}
}
