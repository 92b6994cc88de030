package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors of the terminal editor.
type Theme struct {
	Background    lipgloss.Color
	Highlighted   lipgloss.Color // every second measure
	BlackKeyLane  lipgloss.Color
	Line          lipgloss.Color
	Measure       lipgloss.Color
	Text          lipgloss.Color
	Muted         lipgloss.Color
	Accent        lipgloss.Color
	PlayHead      lipgloss.Color
	WhiteKey      lipgloss.Color
	BlackKey      lipgloss.Color
	KeyDown       lipgloss.Color
	Selected      lipgloss.Color
	LockedNote    lipgloss.Color
	StatusBar     lipgloss.Color
	StatusBarText lipgloss.Color
}

var DefaultTheme = Theme{
	Background:    "#1b1b22",
	Highlighted:   "#22222b",
	BlackKeyLane:  "#17171d",
	Line:          "#34343f",
	Measure:       "#5a5a6a",
	Text:          "#d8d8e0",
	Muted:         "#7a7a8a",
	Accent:        "#e8b05a",
	PlayHead:      "#e85a6e",
	WhiteKey:      "#e6e6ea",
	BlackKey:      "#202026",
	KeyDown:       "#5a9ee8",
	Selected:      "#3a3a4c",
	LockedNote:    "#4a4a58",
	StatusBar:     "#2a2a36",
	StatusBarText: "#b8b8c8",
}

// Symbols used on the canvas.
const (
	symbolNote     = '█'
	symbolNoteEdge = '▌'
	symbolMeasure  = '│'
	symbolLine     = '┊'
	symbolPlayHead = '┃'
	symbolPlayMark = '▼'
)

// lipglossColor is the color of a track, the accent color if it has none.
func lipglossColor(c string) lipgloss.Color {
	if c == "" {
		return DefaultTheme.Accent
	}
	return lipgloss.Color(c)
}
