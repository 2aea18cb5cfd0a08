package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/neonride/internal/games/neonride"
	"github.com/vovakirdan/neonride/internal/platform/tui"
	"github.com/vovakirdan/neonride/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Ride",
	Long: `Start riding. The game defaults to neonride; neonride_autopilot lets
the heuristic agent ride the training profile while you watch.

Controls:
  Left/A/H   - Move one lane left
  Right/D/L  - Move one lane right
  P/Esc      - Pause
  R          - Restart (after game over)
  Ctrl+S     - Save a text screenshot to ~/.neonride/screenshots
  Q/Ctrl+C   - Quit

Examples:
  neonride play
  neonride play neonride_autopilot --seed 7
  neonride play --config ./my-presentation.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := neonride.GameID
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		exitf("unknown game %q\nRun 'neonride list' to see available games.", gameID)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		exitf("creating game: %v", err)
	}

	store := openStoreOrWarn()
	_, runErr := tui.Run(game, store, runtimeConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		exitf("running game: %v", runErr)
	}
}
