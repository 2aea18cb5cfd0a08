package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/neonride/internal/core"
)

// colorStyles maps palette slots to the neon theme.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:  lipgloss.NewStyle(),
	core.ColorRoad:     lipgloss.NewStyle().Foreground(lipgloss.Color("99")),
	core.ColorLane:     lipgloss.NewStyle().Foreground(lipgloss.Color("61")),
	core.ColorObstacle: lipgloss.NewStyle().Foreground(lipgloss.Color("209")),
	core.ColorNear:     lipgloss.NewStyle().Foreground(lipgloss.Color("197")).Bold(true),
	core.ColorPlayer:   lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true),
	core.ColorHUD:      lipgloss.NewStyle().Foreground(lipgloss.Color("231")),
	core.ColorAlert:    lipgloss.NewStyle().Foreground(lipgloss.Color("198")).Bold(true),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
