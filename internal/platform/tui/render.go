package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-battleship/internal/core"
)

// colorStyles maps semantic cell colors to terminal styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorWater:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorShip:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorHit:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	core.ColorMiss:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorSunk:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorCursor:  lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")),
	core.ColorTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
	core.ColorMuted:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	core.ColorAccent:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
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

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}
