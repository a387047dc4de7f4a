// Package theme provides the shared terminal color palette and text styles
// used by the CLI help renderer, the console reporter, and the log formatter.
package theme

import "github.com/charmbracelet/lipgloss"

// ANSI-friendly palette so output degrades cleanly on basic terminals.
const (
	colorGreen  = "2"
	colorYellow = "3"
	colorRed    = "1"
	colorOrange = "208"
	colorCyan   = "6"
	colorBlue   = "4"
	colorViolet = "5"
	colorMuted  = "8"
)

// Colors encapsulates the palette used by a theme. lipgloss.TerminalColor
// allows a mix of adaptive and static colors.
type Colors struct {
	Green  lipgloss.TerminalColor
	Yellow lipgloss.TerminalColor
	Red    lipgloss.TerminalColor
	Orange lipgloss.TerminalColor
	Cyan   lipgloss.TerminalColor
	Blue   lipgloss.TerminalColor
	Violet lipgloss.TerminalColor
	Muted  lipgloss.TerminalColor
}

// Theme bundles the styles used across vigil's terminal output.
type Theme struct {
	Colors Colors

	// Status indicators
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Text styles
	Bold   lipgloss.Style
	Muted  lipgloss.Style
	Italic lipgloss.Style

	// Special styles
	Accent lipgloss.Style
}

// DefaultTheme is the process-wide theme instance.
var DefaultTheme = NewTheme()

// NewTheme builds the default ANSI theme.
func NewTheme() *Theme {
	colors := Colors{
		Green:  lipgloss.Color(colorGreen),
		Yellow: lipgloss.Color(colorYellow),
		Red:    lipgloss.Color(colorRed),
		Orange: lipgloss.Color(colorOrange),
		Cyan:   lipgloss.Color(colorCyan),
		Blue:   lipgloss.Color(colorBlue),
		Violet: lipgloss.Color(colorViolet),
		Muted:  lipgloss.Color(colorMuted),
	}

	return &Theme{
		Colors:  colors,
		Success: lipgloss.NewStyle().Foreground(colors.Green),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(colors.Red),
		Warning: lipgloss.NewStyle().Foreground(colors.Yellow),
		Info:    lipgloss.NewStyle().Foreground(colors.Blue),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(colors.Muted),
		Italic:  lipgloss.NewStyle().Italic(true),
		Accent:  lipgloss.NewStyle().Foreground(colors.Cyan),
	}
}
