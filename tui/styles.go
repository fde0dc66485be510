package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorPrompt = lipgloss.Color("34")  // Green
	ColorMuted  = lipgloss.Color("240") // Dark gray
	ColorGray   = lipgloss.Color("245")
	ColorPurple = lipgloss.Color("135")
)

var (
	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorPrompt).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// lineColors maps the colour names carried on output lines to styles.
var lineColors = map[string]lipgloss.Style{
	"gray-500":   lipgloss.NewStyle().Foreground(ColorGray),
	"purple-500": lipgloss.NewStyle().Foreground(ColorPurple),
}

// colorize renders data in the named colour. Unknown names render plain.
func colorize(color, data string) string {
	style, ok := lineColors[color]
	if !ok {
		return data
	}
	return style.Render(data)
}
