package agent

import (
	"context"
	"sync"
	"testing"

	"github.com/vovakirdan/neonride/internal/config"
)

func heuristicFactory(int64) Policy { return Heuristic{} }
func stayFactory(int64) Policy { return Stay{} }

func TestEvaluateDeterministicAcrossWorkers(t *testing.T) {
	base := EvalConfig{
		Config:   config.DefaultTrainingConfig(),
		Policy:   func(seed int64) Policy { return NewRandom(seed) },
		Episodes: 8,
		BaseSeed: 100,
		MaxSteps: 3000,
	}

	serial := base
	serial.Workers = 1
	parallel := base
	parallel.Workers = 4

	a, sa, err := Evaluate(context.Background(), serial)
	if err != nil {
		t.Fatalf("serial Evaluate failed: %v", err)
	}
	b, sb, err := Evaluate(context.Background(), parallel)
	if err != nil {
		t.Fatalf("parallel Evaluate failed: %v", err)
	}

	for i := range a {
		if a[i].Seed != base.BaseSeed+int64(i) {
			t.Errorf("episode %d seed = %d, expected %d", i, a[i].Seed, base.BaseSeed+int64(i))
		}
		if a[i].Seed != b[i].Seed || a[i].Ticks != b[i].Ticks || a[i].Score != b[i].Score || a[i].TotalReward != b[i].TotalReward {
			t.Errorf("episode %d differs: serial %+v, parallel %+v", i, a[i], b[i])
		}
	}
	if sa != sb {
		t.Errorf("summaries differ: %+v vs %+v", sa, sb)
	}
}

func TestEvaluateCallsOnEpisode(t *testing.T) {
	var mu sync.Mutex
	seen := 0

	eps, sum, err := Evaluate(context.Background(), EvalConfig{
		Config:   config.DefaultTrainingConfig(),
		Policy:   stayFactory,
		Episodes: 5,
		Workers:  3,
		MaxSteps: 50,
		OnEpisode: func(Episode) {
			mu.Lock()
			seen++
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if seen != 5 || len(eps) != 5 || sum.Episodes != 5 {
		t.Errorf("seen %d callbacks, %d episodes, summary %d", seen, len(eps), sum.Episodes)
	}
}

func TestEvaluateRejectsBadConfig(t *testing.T) {
	ctx := context.Background()
	good := EvalConfig{Config: config.DefaultTrainingConfig(), Policy: stayFactory, Episodes: 1}

	bad := good
	bad.Episodes = 0
	if _, _, err := Evaluate(ctx, bad); err == nil {
		t.Error("zero episodes should fail")
	}

	bad = good
	bad.Policy = nil
	if _, _, err := Evaluate(ctx, bad); err == nil {
		t.Error("nil policy should fail")
	}

	bad = good
	bad.Config.Physics.Speed = 0
	if _, _, err := Evaluate(ctx, bad); err == nil {
		t.Error("invalid profile should fail")
	}
}

func TestEvaluateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Evaluate(ctx, EvalConfig{
		Config:   config.DefaultTrainingConfig(),
		Policy:   heuristicFactory,
		Episodes: 4,
		Workers:  2,
	})
	if err == nil {
		t.Error("Evaluate should fail on a canceled context")
	}
}

func TestHeuristicOutlivesStay(t *testing.T) {
	run := func(f PolicyFactory) Summary {
		_, s, err := Evaluate(context.Background(), EvalConfig{
			Config:   config.DefaultTrainingConfig(),
			Policy:   f,
			Episodes: 20,
			Workers:  4,
			BaseSeed: 1,
			MaxSteps: 5000,
		})
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		return s
	}

	heuristic := run(heuristicFactory)
	stay := run(stayFactory)
	if heuristic.MeanTicks <= stay.MeanTicks {
		t.Errorf("heuristic mean ticks %.1f should exceed stay %.1f", heuristic.MeanTicks, stay.MeanTicks)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Episode{
		{Ticks: 100, Score: 2, TotalReward: 3, EndReason: EndCollision},
		{Ticks: 300, Score: 6, TotalReward: -1, EndReason: EndMaxSteps},
	})

	if s.Episodes != 2 || s.Collisions != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.MeanTicks != 200 || s.MeanScore != 4 || s.MeanReward != 1 {
		t.Errorf("means = %+v", s)
	}
	if s.MaxScore != 6 || s.MaxReward != 3 {
		t.Errorf("maxima = %+v", s)
	}

	if empty := Summarize(nil); empty.Episodes != 0 || empty.MaxReward != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}
