package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Box draws Content inside a rounded border with Title set into the top
// edge. Focused boxes use the accent color.
type Box struct {
	Title   string
	Content string
	Focused bool
}

func (b Box) Render(width, height int) string {
	if width < 4 || height < 3 {
		return fitCanvas(b.Content, max(0, width), max(0, height))
	}
	color := colorBorder
	if b.Focused {
		color = colorAccent
	}
	border := lipgloss.RoundedBorder()
	edge := lipgloss.NewStyle().Foreground(color)

	inner := width - 2
	title := ""
	if b.Title != "" {
		title = ansi.Truncate(" "+b.Title+" ", max(0, inner-1), "")
	}
	top := border.TopLeft + border.Top + title +
		strings.Repeat(border.Top, max(0, inner-1-ansi.StringWidth(title))) + border.TopRight
	lines := []string{edge.Render(top)}
	for _, line := range splitToLines(b.Content, height-2) {
		lines = append(lines, edge.Render(border.Left)+fitLine(line, inner)+edge.Render(border.Right))
	}
	bottom := border.BottomLeft + strings.Repeat(border.Bottom, inner) + border.BottomRight
	lines = append(lines, edge.Render(bottom))
	return strings.Join(lines, "\n")
}
