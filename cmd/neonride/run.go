package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neonride/internal/agent"
	"github.com/vovakirdan/neonride/internal/config"
	"github.com/vovakirdan/neonride/internal/storage"
)

var (
	flagPolicy   string
	flagEpisodes int
	flagWorkers  int
	flagMaxSteps int
	flagProfile  string
	flagSave     bool
	flagJSON     bool
	flagRecord   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate a policy over many episodes",
	Long: `Run a built-in policy headless for a batch of episodes and print a summary.

Episode i uses seed base+i, so a batch is reproducible for a fixed --seed
no matter how many workers run it.

Examples:
  neonride run
  neonride run --policy random --episodes 500 --workers 8 --seed 1
  neonride run --profile presentation --save
  neonride run --episodes 3 --json --record > trajectories.json`,
	Run: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagPolicy, "policy", "heuristic", "Policy to evaluate (see 'neonride list')")
	runCmd.Flags().IntVar(&flagEpisodes, "episodes", 20, "Number of episodes")
	runCmd.Flags().IntVar(&flagWorkers, "workers", runtime.NumCPU(), "Concurrent episodes")
	runCmd.Flags().IntVar(&flagMaxSteps, "max-steps", agent.DefaultMaxSteps, "Step cap per episode")
	runCmd.Flags().StringVar(&flagProfile, "profile", string(config.ProfileTraining), "Engine profile: presentation or training")
	runCmd.Flags().BoolVar(&flagSave, "save", false, "Record episode summaries in the database")
	runCmd.Flags().BoolVar(&flagJSON, "json", false, "Print episodes and summary as JSON")
	runCmd.Flags().BoolVar(&flagRecord, "record", false, "Keep per-step trajectories (with --json)")
}

// runReport is the --json output.
type runReport struct {
	Summary  agent.Summary   `json:"summary"`
	Episodes []agent.Episode `json:"episodes"`
}

func runRun(_ *cobra.Command, _ []string) {
	profile, err := config.ParseProfile(flagProfile)
	if err != nil {
		exitf("%v (want %s or %s)", err, config.ProfilePresentation, config.ProfileTraining)
	}
	factory, err := agent.LookupPolicy(flagPolicy)
	if err != nil {
		exitf("%v %q", err, flagPolicy)
	}
	cfg, err := config.Load(profile, flagConfig)
	if err != nil {
		exitf("%v", err)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var store *storage.Store
	if flagSave {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			exitf("%v", err)
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("evaluating",
		"policy", flagPolicy,
		"profile", profile,
		"episodes", flagEpisodes,
		"workers", flagWorkers,
		"seed", seed,
	)

	start := time.Now()
	episodes, summary, err := agent.Evaluate(ctx, agent.EvalConfig{
		Config:   cfg,
		Policy:   factory,
		Episodes: flagEpisodes,
		Workers:  flagWorkers,
		BaseSeed: seed,
		MaxSteps: flagMaxSteps,
		Record:   flagRecord && flagJSON,
		OnEpisode: func(ep agent.Episode) {
			logger.Debug("episode finished",
				"seed", ep.Seed,
				"ticks", ep.Ticks,
				"score", ep.Score,
				"reward", ep.TotalReward,
				"end", ep.EndReason,
			)
			if store == nil {
				return
			}
			if err := store.SaveEpisode(ep); err != nil {
				logger.Warn("could not save episode", "id", ep.ID, "error", err)
			}
		},
	})
	if err != nil {
		exitf("%v", err)
	}
	logger.Info("done", "elapsed", time.Since(start).Round(time.Millisecond))

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(runReport{Summary: summary, Episodes: episodes}); err != nil {
			exitf("%v", err)
		}
		return
	}

	fmt.Printf("Policy %s on %s, %d episodes (seeds %d..%d)\n",
		flagPolicy, profile, summary.Episodes, seed, seed+int64(summary.Episodes)-1)
	fmt.Println()
	fmt.Printf("  %-12s  %10s  %10s\n", "", "mean", "max")
	fmt.Printf("  %-12s  %10.2f  %10.2f\n", "reward", summary.MeanReward, summary.MaxReward)
	fmt.Printf("  %-12s  %10.2f  %10d\n", "score", summary.MeanScore, summary.MaxScore)
	fmt.Printf("  %-12s  %10.1f\n", "ticks", summary.MeanTicks)
	fmt.Printf("  %-12s  %10d\n", "collisions", summary.Collisions)
	if store != nil {
		fmt.Println()
		fmt.Println("Episodes saved. Run 'neonride episodes' to browse them.")
	}
}
