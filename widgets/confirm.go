package widgets

import (
	"strings"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/event"
)

// ConfirmedMsg is sent once a Confirm is answered.
type ConfirmedMsg struct {
	Value bool
}

type confirmMsg int

const (
	confirmToggle confirmMsg = iota
	confirmYes
	confirmNo
	confirmSubmit
)

// Confirm asks a yes/no question. In accessible mode it reads y/n answers
// line by line; an empty line takes the default.
type Confirm struct {
	Prompt      string
	Affirmative string
	Negative    string
	Default     bool
	// QuitOnAnswer makes Update return Quit once answered, for running a
	// Confirm as the root model.
	QuitOnAnswer bool

	value    bool
	answered bool
}

func NewConfirm(prompt string, def bool) *Confirm {
	return &Confirm{
		Prompt:      prompt,
		Affirmative: "Yes",
		Negative:    "No",
		Default:     def,
		value:       def,
	}
}

func (c *Confirm) Value() bool    { return c.value }
func (c *Confirm) Answered() bool { return c.answered }

func (c *Confirm) Init() core.Cmd { return nil }

func (c *Confirm) Update(msg core.Msg) core.Cmd {
	m, ok := msg.(confirmMsg)
	if !ok || c.answered {
		return nil
	}
	switch m {
	case confirmToggle:
		c.value = !c.value
		return nil
	case confirmYes:
		c.value = true
	case confirmNo:
		c.value = false
	}
	c.answered = true
	done := core.Send(ConfirmedMsg{Value: c.value})
	if c.QuitOnAnswer {
		return core.Sequence(done, core.Quit())
	}
	return done
}

func (c *Confirm) View() string {
	if c.answered {
		answer := c.Negative
		if c.value {
			answer = c.Affirmative
		}
		return promptStyle.Render(c.Prompt) + " " + choiceStyle.Render(answer)
	}
	yes, no := "  "+c.Affirmative+"  ", "  "+c.Negative+"  "
	if c.value {
		yes = selectedStyle.Render(yes)
	} else {
		no = selectedStyle.Render(no)
	}
	return promptStyle.Render(c.Prompt) + "\n\n" + yes + " " + no
}

func (c *Confirm) HandleEvent(ev event.Event) core.Msg {
	k, ok := ev.(event.Key)
	if !ok {
		return nil
	}
	switch k.Type {
	case event.KeyEnter:
		return confirmSubmit
	case event.KeyLeft, event.KeyRight, event.KeyTab:
		return confirmToggle
	case event.KeyRunes:
		switch k.Rune() {
		case 'y', 'Y':
			return confirmYes
		case 'n', 'N':
			return confirmNo
		case 'h', 'l':
			return confirmToggle
		}
	}
	return nil
}

func (c *Confirm) AccessiblePrompt() string {
	if c.Default {
		return c.Prompt + " [Y/n]"
	}
	return c.Prompt + " [y/N]"
}

func (c *Confirm) ParseAccessibleInput(line string) core.Msg {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		if c.Default {
			return confirmYes
		}
		return confirmNo
	case "y", "yes", "true", "1":
		return confirmYes
	case "n", "no", "false", "0":
		return confirmNo
	}
	return nil
}

func (c *Confirm) IsAccessibleComplete() bool { return c.answered }
