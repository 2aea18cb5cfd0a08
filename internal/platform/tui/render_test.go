package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/neonride/internal/core"
)

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawTextColored(0, 0, "NEON", core.ColorPlayer)
	s.DrawTextColored(5, 0, "RIDE", core.ColorObstacle)
	s.DrawText(0, 1, "hud")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for _, want := range []string{"NEON", "RIDE", "hud"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestEveryColorHasStyle(t *testing.T) {
	for c := core.ColorDefault; c <= core.ColorAlert; c++ {
		if _, ok := colorStyles[c]; !ok {
			t.Errorf("no style for %v", c)
		}
	}
}
