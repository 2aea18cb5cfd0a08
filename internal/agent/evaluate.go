package agent

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/neonride/internal/config"
	"github.com/vovakirdan/neonride/internal/env"
)

// EvalConfig describes a batch of episodes.
type EvalConfig struct {
	Config    config.NeonRideConfig
	Policy    PolicyFactory
	Episodes  int
	Workers   int   // Concurrent episodes; values below 1 mean 1
	BaseSeed  int64 // Episode i uses BaseSeed+i for both env and policy
	MaxSteps  int
	Record    bool
	OnEpisode func(Episode) // Optional; called from worker goroutines
}

// Summary aggregates a batch of episodes.
type Summary struct {
	Episodes   int     `json:"episodes"`
	MeanReward float64 `json:"mean_reward"`
	MaxReward  float64 `json:"max_reward"`
	MeanScore  float64 `json:"mean_score"`
	MaxScore   int     `json:"max_score"`
	MeanTicks  float64 `json:"mean_ticks"`
	Collisions int     `json:"collisions"`
}

// Evaluate runs cfg.Episodes episodes on a bounded worker pool.
// Each episode gets a fresh environment and policy, so results are
// identical for a fixed BaseSeed regardless of Workers. Episodes are
// returned in seed order.
func Evaluate(ctx context.Context, cfg EvalConfig) ([]Episode, Summary, error) {
	if cfg.Episodes <= 0 {
		return nil, Summary{}, errors.New("agent: episodes must be positive")
	}
	if cfg.Policy == nil {
		return nil, Summary{}, errors.New("agent: policy factory is required")
	}
	if err := cfg.Config.Validate(); err != nil {
		return nil, Summary{}, fmt.Errorf("agent: %w", err)
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	episodes := make([]Episode, cfg.Episodes)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range cfg.Episodes {
		seed := cfg.BaseSeed + int64(i)
		g.Go(func() error {
			e := env.NewSeeded(cfg.Config, seed)
			ep, err := RunEpisode(gctx, e, cfg.Policy(seed), RunOptions{
				MaxSteps: cfg.MaxSteps,
				Seed:     seed,
				Record:   cfg.Record,
			})
			if err != nil {
				return fmt.Errorf("agent: episode %d: %w", i, err)
			}
			episodes[i] = ep
			if cfg.OnEpisode != nil {
				cfg.OnEpisode(ep)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}
	return episodes, Summarize(episodes), nil
}

// Summarize aggregates episode statistics.
func Summarize(episodes []Episode) Summary {
	s := Summary{Episodes: len(episodes)}
	if len(episodes) == 0 {
		return s
	}

	s.MaxReward = episodes[0].TotalReward
	var reward, score, ticks float64
	for _, ep := range episodes {
		reward += ep.TotalReward
		score += float64(ep.Score)
		ticks += float64(ep.Ticks)
		if ep.TotalReward > s.MaxReward {
			s.MaxReward = ep.TotalReward
		}
		if ep.Score > s.MaxScore {
			s.MaxScore = ep.Score
		}
		if ep.EndReason == EndCollision {
			s.Collisions++
		}
	}
	n := float64(len(episodes))
	s.MeanReward = reward / n
	s.MeanScore = score / n
	s.MeanTicks = ticks / n
	return s
}
