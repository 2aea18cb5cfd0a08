package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/neonride/internal/storage"
)

var (
	flagEpisodesPolicy string
	flagEpisodesLimit  int
	flagEpisodesStats  bool
	flagEpisodeID      string
)

var errEpisodeNotFound = errors.New("episode not found")

var episodesCmd = &cobra.Command{
	Use:   "episodes",
	Short: "Show recorded agent episodes",
	Long: `List the most recent agent episodes recorded by 'neonride run --save'
and the gateway, or aggregate them per policy with --stats.

Examples:
  neonride episodes
  neonride episodes --policy heuristic --limit 50
  neonride episodes --stats
  neonride episodes --id 7d444840-9dc0-11d1-b245-5ffdce74fad2`,
	Run: runEpisodes,
}

func init() {
	episodesCmd.Flags().StringVar(&flagEpisodesPolicy, "policy", "", "Only show this policy")
	episodesCmd.Flags().IntVar(&flagEpisodesLimit, "limit", 20, "Number of episodes to show")
	episodesCmd.Flags().BoolVar(&flagEpisodesStats, "stats", false, "Aggregate per profile and policy")
	episodesCmd.Flags().StringVar(&flagEpisodeID, "id", "", "Show one episode in full")
}

func runEpisodes(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("opening database: %v", err)
	}
	defer store.Close()

	if flagEpisodesStats {
		printPolicyStats(store)
		return
	}
	if flagEpisodeID != "" {
		if err := printEpisode(os.Stdout, store, flagEpisodeID); err != nil {
			exitf("%v", err)
		}
		return
	}

	records, err := store.RecentEpisodes(flagEpisodesPolicy, flagEpisodesLimit)
	if err != nil {
		exitf("%v", err)
	}
	if len(records) == 0 {
		fmt.Println("No episodes recorded yet.")
		fmt.Println()
		fmt.Println("Run 'neonride run --save' to record some.")
		return
	}

	fmt.Printf("  %-8s  %-12s  %-10s  %6s  %9s  %7s  %-9s  %s\n",
		"ID", "Profile", "Policy", "Score", "Reward", "Ticks", "End", "Date")
	for _, r := range records {
		fmt.Printf("  %-8s  %-12s  %-10s  %6d  %9.2f  %7d  %-9s  %s\n",
			r.ID.String()[:8], r.Profile, r.Policy, r.Score, r.TotalReward, r.Ticks, r.EndReason,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printPolicyStats(store *storage.Store) {
	stats, err := store.GetPolicyStats()
	if err != nil {
		exitf("%v", err)
	}
	if len(stats) == 0 {
		fmt.Println("No episodes recorded yet.")
		return
	}

	fmt.Printf("  %-12s  %-10s  %8s  %11s  %10s  %10s  %9s  %10s\n",
		"Profile", "Policy", "Episodes", "Mean reward", "Max reward", "Mean score", "Max score", "Mean ticks")
	for _, s := range stats {
		fmt.Printf("  %-12s  %-10s  %8d  %11.2f  %10.2f  %10.2f  %9d  %10.1f\n",
			s.Profile, s.Policy, s.Episodes, s.MeanReward, s.MaxReward, s.MeanScore, s.MaxScore, s.MeanTicks)
	}
}

// printEpisode writes every stored field of one episode.
func printEpisode(w io.Writer, store *storage.Store, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid episode id %q: %w", id, err)
	}
	r, err := store.EpisodeByID(uid)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("%w: %s", errEpisodeNotFound, uid)
	}

	fmt.Fprintf(w, "  ID:       %s\n", r.ID)
	fmt.Fprintf(w, "  Profile:  %s\n", r.Profile)
	fmt.Fprintf(w, "  Policy:   %s\n", r.Policy)
	fmt.Fprintf(w, "  Seed:     %d\n", r.Seed)
	fmt.Fprintf(w, "  Ticks:    %d\n", r.Ticks)
	fmt.Fprintf(w, "  Score:    %d\n", r.Score)
	fmt.Fprintf(w, "  Reward:   %.2f\n", r.TotalReward)
	fmt.Fprintf(w, "  End:      %s\n", r.EndReason)
	fmt.Fprintf(w, "  Recorded: %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
