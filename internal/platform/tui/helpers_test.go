package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/neonride/internal/core"
	"github.com/vovakirdan/neonride/internal/registry"
	"github.com/vovakirdan/neonride/internal/storage"
)

const stubID = "stubride"

// stubGame ends after a fixed number of steps and records the steer it saw.
type stubGame struct {
	resets   int
	ticks    int
	endAfter int
	paused   bool
	steer    []int
	seed     int64
	size     [2]int
}

func init() {
	registry.Register(stubID, func() registry.Game { return &stubGame{endAfter: 3} })
}

func (g *stubGame) ID() string    { return stubID }
func (g *stubGame) Title() string { return "Stub Ride" }

func (g *stubGame) Reset(cfg core.RuntimeConfig) {
	g.resets++
	g.ticks = 0
	g.paused = false
	g.steer = nil
	g.seed = cfg.Seed
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	if g.ticks >= g.endAfter {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if !g.paused {
		g.steer = append(g.steer, in.Steer())
		g.ticks++
	}
	return core.StepResult{State: g.State()}
}

func (g *stubGame) Resize(w, h int) {
	g.size = [2]int{w, h}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "STUB")
}

func (g *stubGame) State() core.GameState {
	return core.GameState{
		Score:    g.ticks * 10,
		Ticks:    g.ticks,
		GameOver: g.ticks >= g.endAfter,
		Paused:   g.paused,
	}
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.Seed = 42
	return cfg
}
