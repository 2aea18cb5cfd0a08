package neonride

import (
	"github.com/vovakirdan/neonride/internal/core"
	"github.com/vovakirdan/neonride/internal/env"
)

// Screen layout rows.
const (
	hudRow     = 0
	horizonRow = 2
	farRow     = 3
	// Rows below the road: two for the bike, one for the key hint
	footerRows = 3

	MinWidth  = 32
	MinHeight = 14
)

// Perspective constants. Spreads are fractions of the screen width; the
// near/far ratio and the glyph growth curve follow the depth model.
const (
	nearSpreadFrac = 0.225
	farSpreadRatio = 40.0 / 180.0
	glyphBaseFrac  = 0.6
	glyphGrowth    = 1.8
	glyphFloor     = 0.25
)

// Projector maps world depth and lanes onto screen cells.
type Projector struct {
	width   int
	height  int
	horizon float64
	nearRow int
	center  float64
	near    float64 // Lane spread at the player
	far     float64 // Lane spread at the horizon
}

// NewProjector creates a projector for a screen size and spawn horizon.
func NewProjector(width, height int, horizon float64) Projector {
	near := float64(width) * nearSpreadFrac
	return Projector{
		width:   width,
		height:  height,
		horizon: horizon,
		nearRow: height - footerRows - 1,
		center:  float64(width-1) / 2,
		near:    near,
		far:     near * farSpreadRatio,
	}
}

// Fits reports whether the screen is large enough to draw the road.
func (p Projector) Fits() bool {
	return p.width >= MinWidth && p.height >= MinHeight
}

// t is the normalized distance: 0 at the player, 1 at the horizon.
func (p Projector) t(depth float64) float64 {
	return core.ClampF(depth/p.horizon, 0, 1)
}

// Row returns the screen row for a depth.
func (p Projector) Row(depth float64) int {
	return core.Round(core.Lerp(float64(p.nearRow), farRow, p.t(depth)))
}

// Depth is the inverse of Row.
func (p Projector) Depth(row int) float64 {
	span := float64(p.nearRow - farRow)
	return p.horizon * float64(p.nearRow-row) / span
}

// Spread returns the lateral distance between lane centers at a depth.
func (p Projector) Spread(depth float64) float64 {
	return core.Lerp(p.far, p.near, 1-p.t(depth))
}

// LaneX returns the center column of a lane at a depth.
func (p Projector) LaneX(l env.Lane, depth float64) float64 {
	return p.center + float64(int(l)-1)*p.Spread(depth)
}

// GlyphWidth returns the obstacle width in cells at a depth, which grows
// as 1/depth and is clamped to fit its lane.
func (p Projector) GlyphWidth(depth float64) int {
	if depth < 0.1 {
		depth = 0.1
	}
	scale := glyphGrowth/depth + glyphFloor
	w := core.Round(p.near * glyphBaseFrac * scale)
	return core.Clamp(w, 1, max(1, int(p.Spread(depth))-1))
}

// GlyphHeight returns the obstacle height in rows for a glyph width.
func (p Projector) GlyphHeight(width int) int {
	return core.Clamp(width/5, 1, 3)
}

// PlayerRow returns the row of the bike's top cell.
func (p Projector) PlayerRow() int {
	return p.nearRow + 1
}
