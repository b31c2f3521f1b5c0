package widgets

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/event"
)

// AppLayout is a full-screen frame: title bar, tab bar with a right-aligned
// status badge, separators, a content area and right-aligned footer hints.
type AppLayout struct {
	Title         string
	Tabs          *TabBar
	Status        *StatusBadge
	Hints         string
	Content       string
	SeparatorChar rune
	TitleFillChar rune

	width, height int
}

func NewAppLayout(width, height int) *AppLayout {
	return &AppLayout{
		width:         width,
		height:        height,
		SeparatorChar: '-',
		TitleFillChar: '/',
	}
}

func (l *AppLayout) Size() (int, int) { return l.width, l.height }

func (l *AppLayout) Resize(width, height int) {
	l.width, l.height = width, height
}

// ContentHeight is the number of lines left for content.
func (l *AppLayout) ContentHeight() int {
	used := 2 // both separators
	if l.Title != "" {
		used++
	}
	if l.Tabs != nil {
		used++
	}
	if l.Hints != "" {
		used++
	}
	return max(0, l.height-used)
}

func (l *AppLayout) titleBar() string {
	prefix := "// " + l.Title + " "
	fill := max(0, l.width-ansi.StringWidth(prefix))
	return titleStyle.Render(ansi.Truncate(prefix+strings.Repeat(string(l.TitleFillChar), fill), l.width, ""))
}

func (l *AppLayout) tabLine() string {
	line := l.Tabs.Render()
	if l.Status != nil {
		status := l.Status.Render()
		pad := max(1, l.width-ansi.StringWidth(line)-ansi.StringWidth(status))
		line += strings.Repeat(" ", pad) + status
	}
	return ansi.Truncate(line, l.width, "")
}

func (l *AppLayout) separator() string {
	return separatorStyle.Render(strings.Repeat(string(l.SeparatorChar), max(0, l.width)))
}

func (l *AppLayout) footer() string {
	hints := ansi.Truncate(l.Hints, l.width, "")
	pad := max(0, l.width-ansi.StringWidth(hints))
	return strings.Repeat(" ", pad) + hintStyle.Render(hints)
}

func (l *AppLayout) Init() core.Cmd { return nil }

func (l *AppLayout) Update(msg core.Msg) core.Cmd {
	switch m := msg.(type) {
	case TabSelectedMsg, tabStepMsg:
		if l.Tabs != nil {
			return l.Tabs.Update(m)
		}
	case ResizeMsg:
		l.Resize(m.Width, m.Height)
	case quitMsg:
		return core.Quit()
	}
	return nil
}

func (l *AppLayout) View() string {
	lines := make([]string, 0, l.height)
	if l.Title != "" {
		lines = append(lines, l.titleBar())
	}
	if l.Tabs != nil {
		lines = append(lines, l.tabLine())
	}
	lines = append(lines, l.separator())

	content := strings.Split(l.Content, "\n")
	for i := 0; i < l.ContentHeight(); i++ {
		if i < len(content) {
			lines = append(lines, ansi.Truncate(content[i], l.width, ""))
		} else {
			lines = append(lines, "")
		}
	}

	lines = append(lines, l.separator())
	if l.Hints != "" {
		lines = append(lines, l.footer())
	}
	return strings.Join(lines, "\n")
}

// HandleEvent quits on q or Esc, switches tabs on their keys and follows
// terminal resizes.
func (l *AppLayout) HandleEvent(ev event.Event) core.Msg {
	switch e := ev.(type) {
	case event.Key:
		if e.Type == event.KeyEsc || (e.Type == event.KeyRunes && e.Rune() == 'q' && !e.Ctrl && !e.Alt) {
			return quitMsg{}
		}
		if l.Tabs != nil {
			return l.Tabs.HandleEvent(e)
		}
	case event.Resize:
		return ResizeMsg{Width: e.Width, Height: e.Height}
	}
	return nil
}
