package widgets

import (
	"strings"
	"unicode"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/event"
)

// Tab is one entry of a TabBar. Key 0 means no shortcut.
type Tab struct {
	ID    string
	Label string
	Key   rune
}

// TabSelectedMsg reports a tab switch.
type TabSelectedMsg struct {
	ID string
}

type tabStepMsg int

// TabBar is a horizontal row of tabs with keyboard shortcuts. The first
// tab is selected until SetSelected is called.
type TabBar struct {
	tabs     []Tab
	selected string
}

func NewTabBar(tabs ...Tab) *TabBar {
	b := &TabBar{tabs: tabs}
	if len(tabs) > 0 {
		b.selected = tabs[0].ID
	}
	return b
}

func (b *TabBar) Tabs() []Tab      { return b.tabs }
func (b *TabBar) Selected() string { return b.selected }

// SetSelected ignores unknown IDs.
func (b *TabBar) SetSelected(id string) {
	if b.index(id) >= 0 {
		b.selected = id
	}
}

// TabForKey returns the tab bound to r, ignoring case.
func (b *TabBar) TabForKey(r rune) (string, bool) {
	r = unicode.ToLower(r)
	for _, t := range b.tabs {
		if t.Key != 0 && unicode.ToLower(t.Key) == r {
			return t.ID, true
		}
	}
	return "", false
}

func (b *TabBar) index(id string) int {
	for i, t := range b.tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (b *TabBar) step(delta int) {
	if len(b.tabs) == 0 {
		return
	}
	i := b.index(b.selected)
	i = (i + delta + len(b.tabs)) % len(b.tabs)
	b.selected = b.tabs[i].ID
}

// Render draws the tabs on one line.
func (b *TabBar) Render() string {
	parts := make([]string, 0, len(b.tabs))
	for _, t := range b.tabs {
		label := t.Label
		if t.ID == b.selected {
			label = activeTabStyle.Render(label)
		} else {
			label = inactiveTabStyle.Render(label)
		}
		if t.Key != 0 {
			label = tabKeyStyle.Render("["+string(t.Key)+"]") + " " + label
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func (b *TabBar) Init() core.Cmd { return nil }

func (b *TabBar) Update(msg core.Msg) core.Cmd {
	switch m := msg.(type) {
	case TabSelectedMsg:
		b.SetSelected(m.ID)
	case tabStepMsg:
		b.step(int(m))
	}
	return nil
}

func (b *TabBar) View() string { return b.Render() }

// HandleEvent maps shortcut keys to their tab, and tab/shift+tab to the
// next and previous tab.
func (b *TabBar) HandleEvent(ev event.Event) core.Msg {
	k, ok := ev.(event.Key)
	if !ok {
		return nil
	}
	switch {
	case k.Type == event.KeyTab && k.Shift:
		return tabStepMsg(-1)
	case k.Type == event.KeyTab:
		return tabStepMsg(1)
	case k.Type == event.KeyRunes && !k.Ctrl && !k.Alt:
		if id, ok := b.TabForKey(k.Rune()); ok {
			return TabSelectedMsg{ID: id}
		}
	}
	return nil
}

// TabBuilder assembles a TabBar, assigning shortcut keys as it goes.
type TabBuilder struct {
	tabs []Tab
	used map[rune]bool
}

func NewTabBuilder() *TabBuilder {
	return &TabBuilder{used: make(map[rune]bool)}
}

// Tab adds a tab whose key is the first letter or digit of id, then of
// label, not already taken. q is reserved for quitting.
func (tb *TabBuilder) Tab(id, label string) *TabBuilder {
	return tb.add(Tab{ID: id, Label: label, Key: tb.freeKey(id + label)})
}

// TabWithKey adds a tab with an explicit key.
func (tb *TabBuilder) TabWithKey(id, label string, key rune) *TabBuilder {
	return tb.add(Tab{ID: id, Label: label, Key: key})
}

func (tb *TabBuilder) add(t Tab) *TabBuilder {
	if t.Key != 0 {
		tb.used[unicode.ToLower(t.Key)] = true
	}
	tb.tabs = append(tb.tabs, t)
	return tb
}

func (tb *TabBuilder) freeKey(s string) rune {
	for _, r := range strings.ToLower(s) {
		if (unicode.IsLetter(r) || unicode.IsDigit(r)) && !tb.used[r] && r != 'q' {
			return r
		}
	}
	return 0
}

func (tb *TabBuilder) Build() *TabBar {
	return NewTabBar(tb.tabs...)
}
