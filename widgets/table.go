package widgets

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Column describes one table column. Width is a minimum; the column is at
// least as wide as its title and widest cell. Grow columns share any space
// left over when the viewport is wider than the content.
type Column struct {
	Title string
	Width int
	Grow  bool
	Align Align
}

const columnGap = 2

// Table renders rows under a header with optional cursor highlighting,
// vertical offset and horizontal scroll.
type Table struct {
	Columns []Column
	Rows    [][]string
	// Width is the viewport width. Zero shows the full content width.
	Width int
	// Height is the number of body rows shown. Zero shows every row.
	Height    int
	Offset    int
	HScroll   int
	Cursor    int
	Highlight bool
}

func (t Table) naturalWidths() []int {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = max(c.Width, ansi.StringWidth(c.Title))
	}
	for _, row := range t.Rows {
		for i := range t.Columns {
			if i < len(row) {
				widths[i] = max(widths[i], ansi.StringWidth(row[i]))
			}
		}
	}
	return widths
}

// ContentWidth is the width of a row before grow columns expand.
func (t Table) ContentWidth() int {
	return sumWidths(t.naturalWidths())
}

func sumWidths(widths []int) int {
	if len(widths) == 0 {
		return 0
	}
	total := columnGap * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	return total
}

func (t Table) widths() []int {
	widths := t.naturalWidths()
	extra := t.Width - sumWidths(widths)
	if extra <= 0 {
		return widths
	}
	var grow []int
	for i, c := range t.Columns {
		if c.Grow {
			grow = append(grow, i)
		}
	}
	for j, w := range apportion(extra, len(grow), nil) {
		widths[grow[j]] += w
	}
	return widths
}

func (t Table) formatRow(cells []string, widths []int) string {
	cols := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		cols[i] = alignCell(cell, w, t.Columns[i].Align)
	}
	return strings.Join(cols, strings.Repeat(" ", columnGap))
}

func alignCell(s string, width int, align Align) string {
	s = ansi.Truncate(s, width, "")
	gap := width - ansi.StringWidth(s)
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	}
	return s + strings.Repeat(" ", gap)
}

// VisibleRows returns the index range of body rows on screen.
func (t Table) VisibleRows() (from, to int) {
	from = min(max(0, t.Offset), len(t.Rows))
	to = len(t.Rows)
	if t.Height > 0 {
		to = min(to, from+t.Height)
	}
	return from, to
}

func (t Table) clip(line string) string {
	if t.Width <= 0 {
		return line
	}
	return fitLine(ansi.Cut(line, t.HScroll, t.HScroll+t.Width), t.Width)
}

// Lines returns the header followed by the visible rows.
func (t Table) Lines() []string {
	if len(t.Columns) == 0 {
		return nil
	}
	widths := t.widths()
	titles := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		titles[i] = c.Title
	}
	from, to := t.VisibleRows()
	lines := make([]string, 0, to-from+1)
	lines = append(lines, headerStyle.Render(t.clip(t.formatRow(titles, widths))))
	for i := from; i < to; i++ {
		line := t.clip(t.formatRow(t.Rows[i], widths))
		if t.Highlight && i == t.Cursor {
			line = selectedStyle.Render(line)
		} else {
			line = cellStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return lines
}

func (t Table) View() string {
	return strings.Join(t.Lines(), "\n")
}

// Render draws the table into a width x height box, header included.
func (t Table) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(t.Columns) == 0 {
		return "No data"
	}
	t.Width = width
	if height == 1 {
		return t.Lines()[0]
	}
	t.Height = height - 1
	return t.View()
}
