package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/neonride/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a game picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
Press B after a game over (or while paused) to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - Scoreboard
  Q            - Quit

Examples:
  neonride menu
  neonride menu --fps 30
  neonride menu --db ./neonride.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStoreOrWarn()
	err := tui.RunSession(store, runtimeConfig())
	if store != nil {
		store.Close()
	}
	if err != nil {
		exitf("%v", err)
	}
}
