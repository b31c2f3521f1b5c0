// Package event defines the input-layer values produced by the event
// sources and handed to Model.HandleEvent.
package event

import (
	"strconv"
	"strings"
	"time"
)

// Event is one of Key, Mouse, Resize, Paste, Focus, Blur, Tick or Line.
type Event interface {
	isEvent()
}

// KeyType identifies non-printable keys. Printable input uses KeyRunes.
type KeyType int

const (
	KeyRunes KeyType = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEsc
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDown
	KeyInsert
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[KeyType]string{
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyEsc:       "esc",
	KeySpace:     "space",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPgUp:      "pgup",
	KeyPgDown:    "pgdown",
	KeyInsert:    "insert",
	KeyDelete:    "delete",
}

func (k KeyType) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k >= KeyF1 && k <= KeyF12 {
		return "f" + strconv.Itoa(int(k-KeyF1)+1)
	}
	return "runes"
}

// Key is a decoded key press. Ctrl combinations of letters arrive as
// KeyRunes with Ctrl set, so "ctrl+c" is Key{Type: KeyRunes, Runes: ['c'], Ctrl: true}.
type Key struct {
	Type  KeyType
	Runes []rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

// Rune returns the first rune of a KeyRunes key, or 0.
func (k Key) Rune() rune {
	if k.Type != KeyRunes || len(k.Runes) == 0 {
		return 0
	}
	return k.Runes[0]
}

// String returns the key name used by key bindings, e.g. "q", "ctrl+c",
// "alt+enter", "shift+tab", "up".
func (k Key) String() string {
	var b strings.Builder
	if k.Ctrl {
		b.WriteString("ctrl+")
	}
	if k.Alt {
		b.WriteString("alt+")
	}
	if k.Shift {
		b.WriteString("shift+")
	}
	if k.Type == KeyRunes {
		b.WriteString(string(k.Runes))
	} else {
		b.WriteString(k.Type.String())
	}
	return b.String()
}

// MouseButton identifies the button or wheel direction of a mouse event.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseWheelLeft
	MouseWheelRight
)

// MouseAction is press, release or motion.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMotion
)

// Mouse is a decoded SGR mouse report. X and Y are zero-based cells.
type Mouse struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
	Alt    bool
	Ctrl   bool
	Shift  bool
}

// Resize reports the terminal dimensions in cells.
type Resize struct {
	Width  int
	Height int
}

// Paste carries text received through bracketed paste.
type Paste struct {
	Text string
}

// Focus is sent when the terminal gains focus.
type Focus struct{}

// Blur is sent when the terminal loses focus.
type Blur struct{}

// Tick is the periodic tick produced by the event source when a tick
// interval is configured.
type Tick struct {
	Time time.Time
}

// Line is one line of input read in accessible mode, without its newline.
type Line struct {
	Text string
}

func (Key) isEvent()    {}
func (Mouse) isEvent()  {}
func (Resize) isEvent() {}
func (Paste) isEvent()  {}
func (Focus) isEvent()  {}
func (Blur) isEvent()   {}
func (Tick) isEvent()   {}
func (Line) isEvent()   {}
