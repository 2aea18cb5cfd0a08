package neonride

import (
	"fmt"

	"github.com/vovakirdan/neonride/internal/core"
	"github.com/vovakirdan/neonride/internal/env"
)

// Visual characters for rendering
const (
	HorizonChar  = '─'
	EdgeLeft     = '╱'
	EdgeRight    = '╲'
	LaneMark     = '┊'
	ObstacleChar = '█'
	ObstacleTop  = '▄'
	BikeTop      = '▲'
	BikeBody     = '█'
)

// Render draws the road, obstacles, bike and HUD.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.env == nil {
		return
	}
	if !g.proj.Fits() {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small", core.ColorAlert)
		return
	}

	g.drawRoad(dst)
	for _, o := range g.env.Obstacles() {
		g.drawObstacle(dst, o)
	}
	g.drawBike(dst)
	g.drawHUD(dst)

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if g.env.Done() {
		g.drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Final Score: %d  |  Press R to restart", g.env.Score()))
	}
}

// drawRoad renders the horizon, road edges and scrolling lane markers.
func (g *Game) drawRoad(dst *core.Screen) {
	dst.DrawHLine(0, horizonRow, dst.Width(), HorizonChar, core.ColorRoad)

	// Markers scroll toward the player one row every few ticks
	phase := g.env.Ticks() / 4
	for row := farRow; row <= g.proj.nearRow; row++ {
		depth := g.proj.Depth(row)
		spread := g.proj.Spread(depth)
		c := g.proj.center

		dst.SetColored(core.Round(c-1.5*spread), row, EdgeLeft, core.ColorRoad)
		dst.SetColored(core.Round(c+1.5*spread), row, EdgeRight, core.ColorRoad)

		if (row+phase)%2 == 0 {
			dst.SetColored(core.Round(c-spread/2), row, LaneMark, core.ColorLane)
			dst.SetColored(core.Round(c+spread/2), row, LaneMark, core.ColorLane)
		}
	}
}

// drawObstacle renders one obstacle as a block that grows as it nears.
func (g *Game) drawObstacle(dst *core.Screen, o env.Obstacle) {
	w := g.proj.GlyphWidth(o.Depth)
	h := g.proj.GlyphHeight(w)
	x0 := core.Round(g.proj.LaneX(o.Lane, o.Depth) - float64(w-1)/2)
	row := g.proj.Row(o.Depth)

	color := core.ColorObstacle
	if g.env.Config().Scoring.CollisionWindow.Contains(o.Depth) {
		color = core.ColorNear
	}

	for dy := 0; dy < h; dy++ {
		ch := ObstacleChar
		if dy == h-1 && h > 1 {
			ch = ObstacleTop
		}
		dst.DrawHLine(x0, row-dy, w, ch, color)
	}
}

// drawBike renders the player's bike at its eased position.
func (g *Game) drawBike(dst *core.Screen) {
	x := core.Round(g.bikeX)
	y := g.proj.PlayerRow()

	color := core.ColorPlayer
	if g.env.Done() {
		color = core.ColorAlert
	}
	dst.SetColored(x, y, BikeTop, color)
	dst.SetColored(x-1, y+1, EdgeLeft, color)
	dst.SetColored(x, y+1, BikeBody, color)
	dst.SetColored(x+1, y+1, EdgeRight, color)
}

// drawHUD renders the score line and, on the training profile, the reward.
func (g *Game) drawHUD(dst *core.Screen) {
	dst.DrawTextColored(2, hudRow, fmt.Sprintf(" Score: %d ", g.env.Score()), core.ColorHUD)

	if g.policy != nil {
		right := fmt.Sprintf(" %s  Reward: %.2f (%+.2f) ", g.policy.Name(), g.env.TotalReward(), g.lastRew)
		dst.DrawTextColored(dst.Width()-len(right)-2, hudRow, right, core.ColorHUD)
	}

	hint := "←/→ steer  P pause  Q quit"
	if g.policy != nil {
		hint = spawnLabel(g.env.LastSpawn()) + "  P pause  Q quit"
	}
	dst.DrawTextCentered(dst.Height()-1, hint, core.ColorLane)
}

// drawCenteredMessage draws a boxed two-line message in the middle of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := max(len(title), len([]rune(subtitle))) + 4
	x := (dst.Width() - w) / 2
	y := dst.Height()/2 - 2

	for row := y; row < y+4; row++ {
		dst.DrawHLine(x, row, w, ' ', core.ColorDefault)
	}
	dst.DrawBox(core.NewRect(x, y, w, 4), core.ColorAlert)
	dst.DrawTextCentered(y+1, title, core.ColorAlert)
	dst.DrawTextCentered(y+2, subtitle, core.ColorHUD)
}

// spawnLabel summarizes the spawner's last decision for the autopilot footer.
func spawnLabel(d env.Decision) string {
	switch {
	case d.Abstain != env.AbstainNone:
		return "spawn: held (" + d.Abstain.String() + ")"
	case len(d.Lanes) == 0:
		return "spawn: pending"
	default:
		return fmt.Sprintf("spawn: %d lane(s)", len(d.Lanes))
	}
}
