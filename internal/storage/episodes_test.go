package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/vovakirdan/neonride/internal/agent"
	"github.com/vovakirdan/neonride/internal/config"
)

func testEpisode(policy string, score int, reward float64) agent.Episode {
	return agent.Episode{
		ID:          uuid.New(),
		Profile:     config.ProfileTraining,
		Policy:      policy,
		Seed:        int64(score),
		Ticks:       score * 100,
		Score:       score,
		TotalReward: reward,
		EndReason:   agent.EndCollision,
	}
}

func TestSaveEpisodeRoundTrip(t *testing.T) {
	store := openTestStore(t)

	ep := testEpisode("heuristic", 3, 12.5)
	if err := store.SaveEpisode(ep); err != nil {
		t.Fatalf("SaveEpisode() failed: %v", err)
	}

	got, err := store.EpisodeByID(ep.ID)
	if err != nil {
		t.Fatalf("EpisodeByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("episode not found")
	}
	if got.ID != ep.ID || got.Profile != ep.Profile || got.Policy != ep.Policy ||
		got.Seed != ep.Seed || got.Ticks != ep.Ticks || got.Score != ep.Score ||
		got.TotalReward != ep.TotalReward || got.EndReason != ep.EndReason {
		t.Errorf("round trip mismatch: saved %+v, loaded %+v", ep, got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	if err := store.SaveEpisode(ep); err == nil {
		t.Error("saving the same episode twice should fail")
	}
}

func TestEpisodeByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.EpisodeByID(uuid.New())
	if err != nil {
		t.Fatalf("EpisodeByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for a missing episode, got %+v", got)
	}
}

func TestRecentEpisodes(t *testing.T) {
	store := openTestStore(t)

	var saved []agent.Episode
	for i, p := range []string{"heuristic", "random", "heuristic", "stay"} {
		ep := testEpisode(p, i+1, float64(i))
		saved = append(saved, ep)
		store.SaveEpisode(ep)
	}

	all, err := store.RecentEpisodes("", 10)
	if err != nil {
		t.Fatalf("RecentEpisodes() failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Expected 4 episodes, got %d", len(all))
	}
	if all[0].ID != saved[3].ID {
		t.Error("newest episode should come first")
	}

	heur, err := store.RecentEpisodes("heuristic", 10)
	if err != nil {
		t.Fatalf("RecentEpisodes() failed: %v", err)
	}
	if len(heur) != 2 {
		t.Errorf("Expected 2 heuristic episodes, got %d", len(heur))
	}

	limited, _ := store.RecentEpisodes("", 1)
	if len(limited) != 1 {
		t.Errorf("limit ignored: got %d", len(limited))
	}
}

func TestPolicyStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveEpisode(testEpisode("heuristic", 2, 10))
	store.SaveEpisode(testEpisode("heuristic", 4, 20))
	store.SaveEpisode(testEpisode("stay", 1, -5))

	stats, err := store.GetPolicyStats()
	if err != nil {
		t.Fatalf("GetPolicyStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 policy rows, got %d", len(stats))
	}

	h := stats[0]
	if h.Policy != "heuristic" || h.Profile != config.ProfileTraining {
		t.Fatalf("first row = %+v", h)
	}
	if h.Episodes != 2 || h.MeanReward != 15 || h.MaxReward != 20 || h.MeanScore != 3 || h.MaxScore != 4 || h.MeanTicks != 300 {
		t.Errorf("heuristic stats = %+v", h)
	}
}

func TestSaveEpisodesFromEvaluate(t *testing.T) {
	store := openTestStore(t)

	var mu sync.Mutex
	var saveErr error
	eps, _, err := agent.Evaluate(context.Background(), agent.EvalConfig{
		Config:   config.DefaultTrainingConfig(),
		Policy:   func(int64) agent.Policy { return agent.Stay{} },
		Episodes: 6,
		Workers:  3,
		MaxSteps: 100,
		OnEpisode: func(ep agent.Episode) {
			if err := store.SaveEpisode(ep); err != nil {
				mu.Lock()
				saveErr = err
				mu.Unlock()
			}
		},
	})
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if saveErr != nil {
		t.Fatalf("concurrent SaveEpisode failed: %v", saveErr)
	}

	stored, _ := store.RecentEpisodes("stay", 100)
	if len(stored) != len(eps) {
		t.Errorf("stored %d episodes, evaluated %d", len(stored), len(eps))
	}
}
