package widgets

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorText    lipgloss.Color = "#cdd6f4"
	colorMuted   lipgloss.Color = "#a6adc8"
	colorBorder  lipgloss.Color = "#585b70"
	colorAccent  lipgloss.Color = "#89b4fa"
	colorSuccess lipgloss.Color = "#a6e3a1"
	colorError   lipgloss.Color = "#f38ba8"
	colorWarning lipgloss.Color = "#f9e2af"
	colorTabOff  lipgloss.Color = "#7f849c"
	colorSurface lipgloss.Color = "#313244"
)

var (
	titleStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	separatorStyle = lipgloss.NewStyle().Foreground(colorBorder)
	hintStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	hintKeyStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	activeTabStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(colorTabOff)
	tabKeyStyle      = lipgloss.NewStyle().Foreground(colorMuted)

	headerStyle   = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	cellStyle     = lipgloss.NewStyle().Foreground(colorText)
	selectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Background(colorSurface).Bold(true)

	promptStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	choiceStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
)

// UseColor switches every widget style between the terminal's detected
// color profile and plain text.
func UseColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}
