package widgets

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/event"
)

// StatusLine is drawn right-aligned under a FullScreenTable title. Both
// StatusBadge and CustomStatus satisfy it.
type StatusLine interface {
	Render() string
}

// CustomStatus is a pre-rendered status line and may contain ANSI styling.
type CustomStatus string

func (s CustomStatus) Render() string { return string(s) }

// TableAction is a FullScreenTable message.
type TableAction int

const (
	SelectPrev TableAction = iota
	SelectNext
	ScrollLeft
	ScrollRight
	PageUp
	PageDown
)

const hScrollStep = 4

// fixed lines: title, blank, status, separator, table header, separator, footer
const fullScreenChrome = 7

// FullScreenTable is a full-screen view of tabular data with a title,
// status line, scrollable table and footer hints.
type FullScreenTable struct {
	Title         string
	Status        StatusLine
	Columns       []Column
	Rows          [][]string
	Hints         string
	Keys          TableKeyMap
	TitleFillChar rune
	SeparatorChar rune

	width, height int
	selected      int
	offset        int
	hscroll       int
}

func NewFullScreenTable(width, height int) *FullScreenTable {
	return &FullScreenTable{
		Keys:          DefaultTableKeys(),
		TitleFillChar: '/',
		SeparatorChar: '─',
		width:         width,
		height:        height,
	}
}

func (t *FullScreenTable) Size() (int, int) { return t.width, t.height }
func (t *FullScreenTable) Selected() int    { return t.selected }
func (t *FullScreenTable) HScroll() int     { return t.hscroll }

// CurrentRow returns nil when the table is empty.
func (t *FullScreenTable) CurrentRow() []string {
	if t.selected < len(t.Rows) {
		return t.Rows[t.selected]
	}
	return nil
}

// VisibleRows is the number of body rows that fit on screen.
func (t *FullScreenTable) VisibleRows() int {
	return max(0, t.height-fullScreenChrome)
}

func (t *FullScreenTable) table() Table {
	return Table{
		Columns:   t.Columns,
		Rows:      t.Rows,
		Width:     t.width,
		Height:    max(1, t.VisibleRows()),
		Offset:    t.offset,
		HScroll:   t.hscroll,
		Cursor:    t.selected,
		Highlight: true,
	}
}

func (t *FullScreenTable) maxHScroll() int {
	return max(0, t.table().ContentWidth()-t.width)
}

func (t *FullScreenTable) clamp() {
	visible := t.VisibleRows()
	t.offset = min(t.offset, max(0, len(t.Rows)-visible))
	t.offset = max(0, t.offset)
	t.selected = max(0, min(t.selected, len(t.Rows)-1))
}

// follow scrolls so the selected row stays inside the window.
func (t *FullScreenTable) follow() {
	visible := max(1, t.VisibleRows())
	if t.selected < t.offset {
		t.offset = t.selected
	}
	if t.selected >= t.offset+visible {
		t.offset = t.selected - (visible - 1)
	}
}

func (t *FullScreenTable) Init() core.Cmd { return nil }

func (t *FullScreenTable) Update(msg core.Msg) core.Cmd {
	switch m := msg.(type) {
	case TableAction:
		page := max(1, t.VisibleRows()-1)
		switch m {
		case SelectPrev:
			t.selected = max(0, t.selected-1)
		case SelectNext:
			t.selected = min(t.selected+1, max(0, len(t.Rows)-1))
		case PageUp:
			t.selected = max(0, t.selected-page)
		case PageDown:
			t.selected = min(t.selected+page, max(0, len(t.Rows)-1))
		case ScrollLeft:
			t.hscroll = max(0, t.hscroll-hScrollStep)
		case ScrollRight:
			t.hscroll = min(t.hscroll+hScrollStep, t.maxHScroll())
		}
		t.follow()
	case ResizeMsg:
		t.width, t.height = m.Width, m.Height
		t.hscroll = min(t.hscroll, t.maxHScroll())
	case quitMsg:
		return core.Quit()
	}
	t.clamp()
	return nil
}

func (t *FullScreenTable) separator() string {
	return separatorStyle.Render(strings.Repeat(string(t.SeparatorChar), max(0, t.width)))
}

func (t *FullScreenTable) footer() string {
	left, right := "  ", "  "
	if t.hscroll > 0 {
		left = "◀ "
	}
	if t.hscroll < t.maxHScroll() {
		right = " ▶"
	}
	hints := ansi.Truncate(t.Hints, max(0, t.width-4), "")
	pad := max(0, t.width-ansi.StringWidth(hints)-4)
	return hintStyle.Render(left + strings.Repeat(" ", pad) + hints + right)
}

func (t *FullScreenTable) View() string {
	lines := make([]string, 0, t.height)

	prefix := "// " + t.Title + " "
	fill := max(0, t.width-ansi.StringWidth(prefix))
	lines = append(lines, titleStyle.Render(ansi.Truncate(prefix+strings.Repeat(string(t.TitleFillChar), fill), t.width, "")))
	lines = append(lines, "")

	var status string
	if t.Status != nil {
		status = t.Status.Render()
		status = strings.Repeat(" ", max(0, t.width-ansi.StringWidth(status))) + status
	}
	lines = append(lines, status)
	lines = append(lines, t.separator())

	body := t.table().Lines()
	lines = append(lines, body...)
	for pad := t.height - (fullScreenChrome - 1) - len(body); pad > 0; pad-- {
		lines = append(lines, "")
	}

	lines = append(lines, t.separator())
	lines = append(lines, t.footer())
	return strings.Join(lines, "\n")
}

func (t *FullScreenTable) HandleEvent(ev event.Event) core.Msg {
	switch e := ev.(type) {
	case event.Key:
		switch {
		case key.Matches(e, t.Keys.Quit):
			return quitMsg{}
		case key.Matches(e, t.Keys.Up):
			return SelectPrev
		case key.Matches(e, t.Keys.Down):
			return SelectNext
		case key.Matches(e, t.Keys.Left):
			return ScrollLeft
		case key.Matches(e, t.Keys.Right):
			return ScrollRight
		case key.Matches(e, t.Keys.PageUp):
			return PageUp
		case key.Matches(e, t.Keys.PageDown):
			return PageDown
		}
	case event.Resize:
		return ResizeMsg{Width: e.Width, Height: e.Height}
	}
	return nil
}
