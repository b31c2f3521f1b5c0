package widgets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/event"
)

// SelectedMsg is sent once a Select is answered.
type SelectedMsg struct {
	Index  int
	Option string
}

type selectMoveMsg int

type selectChooseMsg struct {
	index int
}

// Select picks one option from a list. In accessible mode the answer is
// typed as a number, a name, or a close misspelling of a name.
type Select struct {
	Prompt  string
	Options []string
	// QuitOnAnswer makes Update return Quit once answered.
	QuitOnAnswer bool

	cursor int
	chosen int
}

func NewSelect(prompt string, options ...string) *Select {
	return &Select{Prompt: prompt, Options: options, chosen: -1}
}

func (s *Select) Cursor() int { return s.cursor }

// Chosen returns the selected index, or -1.
func (s *Select) Chosen() int { return s.chosen }

func (s *Select) Init() core.Cmd { return nil }

func (s *Select) Update(msg core.Msg) core.Cmd {
	if s.chosen >= 0 || len(s.Options) == 0 {
		return nil
	}
	switch m := msg.(type) {
	case selectMoveMsg:
		s.cursor = (s.cursor + int(m) + len(s.Options)) % len(s.Options)
	case selectChooseMsg:
		if m.index < 0 || m.index >= len(s.Options) {
			return nil
		}
		s.cursor, s.chosen = m.index, m.index
		done := core.Send(SelectedMsg{Index: m.index, Option: s.Options[m.index]})
		if s.QuitOnAnswer {
			return core.Sequence(done, core.Quit())
		}
		return done
	}
	return nil
}

func (s *Select) View() string {
	if s.chosen >= 0 {
		return promptStyle.Render(s.Prompt) + " " + choiceStyle.Render(s.Options[s.chosen])
	}
	var b strings.Builder
	b.WriteString(promptStyle.Render(s.Prompt))
	for i, opt := range s.Options {
		b.WriteString("\n")
		if i == s.cursor {
			b.WriteString(selectedStyle.Render("> " + opt))
		} else {
			b.WriteString(cellStyle.Render("  " + opt))
		}
	}
	return b.String()
}

func (s *Select) HandleEvent(ev event.Event) core.Msg {
	k, ok := ev.(event.Key)
	if !ok {
		return nil
	}
	switch k.Type {
	case event.KeyUp:
		return selectMoveMsg(-1)
	case event.KeyDown, event.KeyTab:
		return selectMoveMsg(1)
	case event.KeyEnter:
		return selectChooseMsg{index: s.cursor}
	case event.KeyRunes:
		switch r := k.Rune(); {
		case r == 'k':
			return selectMoveMsg(-1)
		case r == 'j':
			return selectMoveMsg(1)
		case r >= '1' && r <= '9':
			if i := int(r - '1'); i < len(s.Options) {
				return selectChooseMsg{index: i}
			}
		}
	}
	return nil
}

func (s *Select) AccessiblePrompt() string {
	var b strings.Builder
	b.WriteString(s.Prompt)
	for i, opt := range s.Options {
		fmt.Fprintf(&b, "\n  %d) %s", i+1, opt)
	}
	fmt.Fprintf(&b, "\nEnter a number (1-%d) or name:", len(s.Options))
	return b.String()
}

func (s *Select) ParseAccessibleInput(line string) core.Msg {
	if i := s.match(line); i >= 0 {
		return selectChooseMsg{index: i}
	}
	return nil
}

func (s *Select) IsAccessibleComplete() bool { return s.chosen >= 0 }

// match resolves typed input to an option index: a 1-based number, an
// exact name, a unique prefix, then the single nearest name within a
// third of its length in edits.
func (s *Select) match(line string) int {
	in := strings.ToLower(strings.TrimSpace(line))
	if in == "" {
		return -1
	}
	if n, err := strconv.Atoi(in); err == nil {
		if n >= 1 && n <= len(s.Options) {
			return n - 1
		}
		return -1
	}

	prefix := -1
	for i, opt := range s.Options {
		o := strings.ToLower(opt)
		if o == in {
			return i
		}
		if strings.HasPrefix(o, in) {
			if prefix >= 0 {
				prefix = -2
			} else if prefix == -1 {
				prefix = i
			}
		}
	}
	if prefix >= 0 {
		return prefix
	}

	best, bestDist, tie := -1, 0, false
	for i, opt := range s.Options {
		o := strings.ToLower(opt)
		d := levenshtein.ComputeDistance(in, o)
		if d > max(1, len([]rune(o))/3) {
			continue
		}
		switch {
		case best < 0 || d < bestDist:
			best, bestDist, tie = i, d, false
		case d == bestDist:
			tie = true
		}
	}
	if tie {
		return -1
	}
	return best
}
