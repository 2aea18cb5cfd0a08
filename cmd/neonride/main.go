// neonride runs the Neon Ride three-lane environment: play it in the
// terminal, serve it over SSH, evaluate agents, or expose it to remote
// agents over HTTP and websockets.
//
// Usage:
//
//	neonride list              - List available games
//	neonride play [game]       - Ride (default: neonride)
//	neonride menu              - Start menu to pick games interactively
//	neonride run               - Evaluate a policy over many episodes
//	neonride scores [game]     - Show high scores for a game
//	neonride episodes          - Show recorded agent episodes
//	neonride serve             - Start SSH server for remote play
//	neonride gateway           - Start the HTTP/websocket agent gateway
//	neonride schema            - Print JSON Schemas of the gateway messages
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible rides
//	--db <path>           - Set database path (default: ~/.neonride/neonride.db)
//	--config <path>       - Custom profile YAML
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/neonride/internal/core"
	"github.com/vovakirdan/neonride/internal/games/neonride"
	"github.com/vovakirdan/neonride/internal/storage"
)

const defaultDBPath = "~/.neonride/neonride.db"

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string

	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "neonride",
	Short: "Neon Ride - a three-lane runner for humans and agents",
	Long: `Neon Ride is a pseudo-3D three-lane runner. The same engine drives the
terminal game, the agent evaluator and the remote agent gateway.

Available commands:
  list      - Show all available games
  play      - Ride directly
  menu      - Interactive game picker menu
  run       - Evaluate a policy
  scores    - View high scores
  episodes  - View recorded agent episodes
  serve     - Start SSH server for remote play
  gateway   - Start HTTP/websocket gateway for remote agents
  schema    - Print gateway message schemas

Examples:
  neonride play
  neonride play neonride_autopilot
  neonride run --policy heuristic --episodes 100 --save
  neonride gateway --addr :8080`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to scores and episodes database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom profile YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(gatewayCmd)
	rootCmd.AddCommand(schemaCmd)
}

// setup loads .env, applies environment overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	// A missing .env is fine
	_ = godotenv.Load()

	envOverride(cmd, "db", "NEONRIDE_DB", &flagDBPath)
	envOverride(cmd, "log-level", "NEONRIDE_LOG_LEVEL", &flagLogLevel)

	l, err := newLogger(flagLogLevel)
	if err != nil {
		return err
	}
	logger = l

	neonride.SetConfigPath(flagConfig)
	return nil
}

// envOverride replaces a flag's default with an environment variable,
// unless the flag was set explicitly on the command line.
func envOverride(cmd *cobra.Command, flag, env string, dst *string) {
	if cmd.Flags().Changed(flag) {
		return
	}
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*dst = v
	}
}

// newLogger builds the process logger for a level name.
func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "neonride",
	}), nil
}

// runtimeConfig sizes the screen from the terminal and applies global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStoreOrWarn opens storage for interactive play. Failures are logged
// and the game continues without persistence.
func openStoreOrWarn() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, scores will not be saved", "error", err)
		return nil
	}
	return store
}

// exitf prints an error and exits with status 1.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
