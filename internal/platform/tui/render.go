package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/goblin-physics/internal/core"
)

// palette maps core.Color to the ANSI 256 code used by lipgloss. Unknown
// colors render unstyled.
var palette = [...]string{
	core.ColorDefault:       "",
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

var styles = func() []lipgloss.Style {
	out := make([]lipgloss.Style, len(palette))
	for i, code := range palette {
		out[i] = lipgloss.NewStyle()
		if code != "" {
			out[i] = out[i].Foreground(lipgloss.Color(code))
		}
	}
	return out
}()

func styleFor(c core.Color) lipgloss.Style {
	if int(c) < len(styles) {
		return styles[c]
	}
	return styles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())
	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		renderRow(&sb, s, y)
	}
	return sb.String()
}

// renderRow writes row y, styling each run of same-colored cells once.
func renderRow(sb *strings.Builder, s *core.Screen, y int) {
	var run strings.Builder
	color := core.ColorDefault
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if color == core.ColorDefault {
			sb.WriteString(run.String())
		} else {
			sb.WriteString(styleFor(color).Render(run.String()))
		}
		run.Reset()
	}

	for x := 0; x < s.Width(); x++ {
		cell := s.GetCell(x, y)
		if cell.Color != color {
			flush()
			color = cell.Color
		}
		run.WriteRune(cell.Rune)
	}
	flush()
}
