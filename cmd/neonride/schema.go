package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neonride/internal/gateway"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [message]",
	Short: "Print JSON Schemas of the gateway messages",
	Long: `Print the JSON Schema of every gateway wire message, or of one message.

Examples:
  neonride schema
  neonride schema step_request`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: gateway.SchemaNames(),
	Run:       runSchema,
}

func runSchema(_ *cobra.Command, args []string) {
	if len(args) == 0 {
		if err := gateway.WriteSchemas(os.Stdout); err != nil {
			exitf("%v", err)
		}
		return
	}

	s, err := gateway.Schema(args[0])
	if err != nil {
		exitf("%v", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		exitf("%v", err)
	}
}
