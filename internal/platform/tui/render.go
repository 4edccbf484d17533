package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flappy-arcade/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Runs of same-colored cells share one style so each run costs a single
// escape sequence; default-colored runs are written raw.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	flush := func(c core.Color) {
		if run.Len() == 0 {
			return
		}
		style, ok := colorStyles[c]
		if c == core.ColorDefault || !ok {
			sb.WriteString(run.String())
		} else {
			sb.WriteString(style.Render(run.String()))
		}
		run.Reset()
	}

	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		current := core.ColorDefault
		for x := range s.Width() {
			cell := s.GetCell(x, y)
			if cell.Color != current {
				flush(current)
				current = cell.Color
			}
			run.WriteRune(cell.Rune)
		}
		flush(current)
	}
	return sb.String()
}
