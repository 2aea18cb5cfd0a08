package main

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug")
	if err != nil {
		t.Fatalf("newLogger failed: %v", err)
	}
	if l.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", l.GetLevel())
	}

	if _, err := newLogger("loud"); err == nil {
		t.Error("unknown level should fail")
	}
}

func TestEnvOverride(t *testing.T) {
	newCmd := func() (*cobra.Command, *string) {
		var v string
		cmd := &cobra.Command{Use: "x"}
		cmd.Flags().StringVar(&v, "db", "default.db", "")
		return cmd, &v
	}

	t.Setenv("NEONRIDE_DB", "/tmp/env.db")

	cmd, v := newCmd()
	envOverride(cmd, "db", "NEONRIDE_DB", v)
	if *v != "/tmp/env.db" {
		t.Errorf("db = %q, env should replace the default", *v)
	}

	cmd, v = newCmd()
	if err := cmd.Flags().Set("db", "flag.db"); err != nil {
		t.Fatal(err)
	}
	envOverride(cmd, "db", "NEONRIDE_DB", v)
	if *v != "flag.db" {
		t.Errorf("db = %q, explicit flag should win", *v)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"list", "play", "menu", "run", "scores", "episodes", "serve", "gateway", "schema"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
