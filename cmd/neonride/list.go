package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neonride/internal/agent"
	"github.com/vovakirdan/neonride/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games and policies",
	Long:  `Shows every registered game and every built-in agent policy.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	maxTitleLen := 5
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
		maxTitleLen = max(maxTitleLen, len(g.Title))
	}

	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Description")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "-----------")
	for _, g := range games {
		fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, g.ID, maxTitleLen, g.Title, g.Description)
	}

	fmt.Println()
	fmt.Println("Policies:")
	for _, name := range agent.PolicyNames() {
		fmt.Printf("  %s\n", name)
	}

	fmt.Println()
	fmt.Println("Run 'neonride play <id>' to ride, or 'neonride run --policy <name>' to evaluate.")
}
