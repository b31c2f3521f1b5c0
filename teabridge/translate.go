package teabridge

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/event"
)

// Msg translates an event into the message a tea model expects, or nil
// when tea has no equivalent.
func Msg(ev event.Event) core.Msg {
	switch e := ev.(type) {
	case event.Key:
		if k, ok := Key(e); ok {
			return k
		}
	case event.Paste:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(e.Text), Paste: true}
	case event.Mouse:
		return Mouse(e)
	case event.Resize:
		return tea.WindowSizeMsg{Width: e.Width, Height: e.Height}
	case event.Focus:
		return tea.FocusMsg{}
	case event.Blur:
		return tea.BlurMsg{}
	}
	return nil
}

// variants holds the plain, ctrl, shift and ctrl+shift form of a key.
type variants [4]tea.KeyType

var navigation = map[event.KeyType]variants{
	event.KeyUp:     {tea.KeyUp, tea.KeyCtrlUp, tea.KeyShiftUp, tea.KeyCtrlShiftUp},
	event.KeyDown:   {tea.KeyDown, tea.KeyCtrlDown, tea.KeyShiftDown, tea.KeyCtrlShiftDown},
	event.KeyLeft:   {tea.KeyLeft, tea.KeyCtrlLeft, tea.KeyShiftLeft, tea.KeyCtrlShiftLeft},
	event.KeyRight:  {tea.KeyRight, tea.KeyCtrlRight, tea.KeyShiftRight, tea.KeyCtrlShiftRight},
	event.KeyHome:   {tea.KeyHome, tea.KeyCtrlHome, tea.KeyShiftHome, tea.KeyCtrlShiftHome},
	event.KeyEnd:    {tea.KeyEnd, tea.KeyCtrlEnd, tea.KeyShiftEnd, tea.KeyCtrlShiftEnd},
	event.KeyPgUp:   {tea.KeyPgUp, tea.KeyCtrlPgUp, tea.KeyPgUp, tea.KeyCtrlPgUp},
	event.KeyPgDown: {tea.KeyPgDown, tea.KeyCtrlPgDown, tea.KeyPgDown, tea.KeyCtrlPgDown},
}

var simple = map[event.KeyType]tea.KeyType{
	event.KeyEnter:     tea.KeyEnter,
	event.KeyBackspace: tea.KeyBackspace,
	event.KeyEsc:       tea.KeyEsc,
	event.KeyInsert:    tea.KeyInsert,
	event.KeyDelete:    tea.KeyDelete,
}

// Key translates a key press. Combinations tea cannot express, such as
// ctrl with a non-letter rune, report false.
func Key(k event.Key) (tea.KeyMsg, bool) {
	msg := tea.KeyMsg{Alt: k.Alt}
	switch {
	case k.Type == event.KeyRunes:
		if !k.Ctrl {
			msg.Type, msg.Runes = tea.KeyRunes, k.Runes
			return msg, true
		}
		if len(k.Runes) != 1 {
			return msg, false
		}
		r := unicode.ToLower(k.Runes[0])
		if r < 'a' || r > 'z' {
			return msg, false
		}
		msg.Type = tea.KeyCtrlA + tea.KeyType(r-'a')
	case k.Type == event.KeySpace:
		msg.Type, msg.Runes = tea.KeySpace, []rune{' '}
	case k.Type == event.KeyTab:
		msg.Type = tea.KeyTab
		if k.Shift {
			msg.Type = tea.KeyShiftTab
		}
	case k.Type >= event.KeyF1 && k.Type <= event.KeyF12:
		// tea numbers its function keys downwards.
		msg.Type = tea.KeyF1 - tea.KeyType(k.Type-event.KeyF1)
	default:
		if v, ok := navigation[k.Type]; ok {
			i := 0
			if k.Ctrl {
				i++
			}
			if k.Shift {
				i += 2
			}
			msg.Type = v[i]
			return msg, true
		}
		t, ok := simple[k.Type]
		if !ok {
			return msg, false
		}
		msg.Type = t
	}
	return msg, true
}

// Mouse translates a mouse event.
func Mouse(m event.Mouse) tea.MouseMsg {
	out := tea.MouseMsg{X: m.X, Y: m.Y, Alt: m.Alt, Ctrl: m.Ctrl, Shift: m.Shift}
	switch m.Action {
	case event.MouseRelease:
		out.Action = tea.MouseActionRelease
	case event.MouseMotion:
		out.Action = tea.MouseActionMotion
	default:
		out.Action = tea.MouseActionPress
	}
	switch m.Button {
	case event.MouseLeft:
		out.Button = tea.MouseButtonLeft
	case event.MouseMiddle:
		out.Button = tea.MouseButtonMiddle
	case event.MouseRight:
		out.Button = tea.MouseButtonRight
	case event.MouseWheelUp:
		out.Button = tea.MouseButtonWheelUp
	case event.MouseWheelDown:
		out.Button = tea.MouseButtonWheelDown
	case event.MouseWheelLeft:
		out.Button = tea.MouseButtonWheelLeft
	case event.MouseWheelRight:
		out.Button = tea.MouseButtonWheelRight
	default:
		out.Button = tea.MouseButtonNone
	}
	return out
}
