package input

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/inferadb/ferment/event"
)

const esc = 0x1b

var (
	pasteStart = []byte("\x1b[200~")
	pasteEnd   = []byte("\x1b[201~")
)

// Decoder turns raw terminal bytes into events. It keeps incomplete
// escape sequences and bracketed paste bodies between calls to Feed.
type Decoder struct {
	pending []byte
	pasting bool
	paste   bytes.Buffer
}

// Feed decodes p and returns the complete events it contained.
func (d *Decoder) Feed(p []byte) []event.Event {
	buf := append(d.pending, p...)
	d.pending = nil

	var out []event.Event
	for len(buf) > 0 {
		if d.pasting {
			i := bytes.Index(buf, pasteEnd)
			if i < 0 {
				d.paste.Write(buf)
				return out
			}
			d.paste.Write(buf[:i])
			out = append(out, event.Paste{Text: d.paste.String()})
			d.paste.Reset()
			d.pasting = false
			buf = buf[i+len(pasteEnd):]
			continue
		}
		if bytes.HasPrefix(buf, pasteStart) {
			d.pasting = true
			buf = buf[len(pasteStart):]
			continue
		}

		ev, n := decodeOne(buf)
		if n == 0 {
			d.pending = append([]byte(nil), buf...)
			return out
		}
		if ev != nil {
			out = append(out, ev)
		}
		buf = buf[n:]
	}
	return out
}

// Flush returns whatever Feed is holding as plain keys. Used when the
// input ends with a partial sequence.
func (d *Decoder) Flush() []event.Event {
	var out []event.Event
	if d.pasting {
		out = append(out, event.Paste{Text: d.paste.String()})
		d.paste.Reset()
		d.pasting = false
	}
	for _, b := range d.pending {
		out = append(out, controlKey(b))
	}
	d.pending = nil
	return out
}

// decodeOne decodes the first event in buf. n == 0 means buf holds an
// incomplete sequence and more input is needed.
func decodeOne(buf []byte) (event.Event, int) {
	b := buf[0]
	if b == esc {
		if len(buf) == 1 {
			return event.Key{Type: event.KeyEsc}, 1
		}
		switch buf[1] {
		case '[':
			return decodeCSI(buf)
		case 'O':
			return decodeSS3(buf)
		case esc:
			return event.Key{Type: event.KeyEsc, Alt: true}, 2
		}
		ev, n := decodeOne(buf[1:])
		if n == 0 {
			return nil, 0
		}
		if k, ok := ev.(event.Key); ok {
			k.Alt = true
			return k, n + 1
		}
		return event.Key{Type: event.KeyEsc}, 1
	}
	if b < 0x20 || b == 0x7f {
		return controlKey(b), 1
	}
	if b == ' ' {
		return event.Key{Type: event.KeySpace, Runes: []rune{' '}}, 1
	}
	if !utf8.FullRune(buf) {
		return nil, 0
	}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError {
		return nil, size
	}
	return event.Key{Type: event.KeyRunes, Runes: []rune{r}}, size
}

func controlKey(b byte) event.Key {
	switch b {
	case '\r', '\n':
		return event.Key{Type: event.KeyEnter}
	case '\t':
		return event.Key{Type: event.KeyTab}
	case 0x7f, 0x08:
		return event.Key{Type: event.KeyBackspace}
	case esc:
		return event.Key{Type: event.KeyEsc}
	case 0x00:
		return event.Key{Type: event.KeyRunes, Runes: []rune{'@'}, Ctrl: true}
	case ' ':
		return event.Key{Type: event.KeySpace, Runes: []rune{' '}}
	}
	if b >= 0x01 && b <= 0x1a {
		return event.Key{Type: event.KeyRunes, Runes: []rune{rune('a' + b - 1)}, Ctrl: true}
	}
	if b >= 0x1c && b <= 0x1f {
		return event.Key{Type: event.KeyRunes, Runes: []rune{rune('\\' + b - 0x1c)}, Ctrl: true}
	}
	return event.Key{Type: event.KeyRunes, Runes: []rune{rune(b)}}
}

var ss3Keys = map[byte]event.KeyType{
	'A': event.KeyUp,
	'B': event.KeyDown,
	'C': event.KeyRight,
	'D': event.KeyLeft,
	'H': event.KeyHome,
	'F': event.KeyEnd,
	'P': event.KeyF1,
	'Q': event.KeyF2,
	'R': event.KeyF3,
	'S': event.KeyF4,
}

func decodeSS3(buf []byte) (event.Event, int) {
	if len(buf) < 3 {
		return nil, 0
	}
	if t, ok := ss3Keys[buf[2]]; ok {
		return event.Key{Type: t}, 3
	}
	return event.Key{Type: event.KeyRunes, Runes: []rune{'O'}, Alt: true}, 2
}

var csiFinalKeys = map[byte]event.KeyType{
	'A': event.KeyUp,
	'B': event.KeyDown,
	'C': event.KeyRight,
	'D': event.KeyLeft,
	'H': event.KeyHome,
	'F': event.KeyEnd,
	'P': event.KeyF1,
	'Q': event.KeyF2,
	'R': event.KeyF3,
	'S': event.KeyF4,
}

var csiTildeKeys = map[int]event.KeyType{
	1:  event.KeyHome,
	2:  event.KeyInsert,
	3:  event.KeyDelete,
	4:  event.KeyEnd,
	5:  event.KeyPgUp,
	6:  event.KeyPgDown,
	7:  event.KeyHome,
	8:  event.KeyEnd,
	11: event.KeyF1,
	12: event.KeyF2,
	13: event.KeyF3,
	14: event.KeyF4,
	15: event.KeyF5,
	17: event.KeyF6,
	18: event.KeyF7,
	19: event.KeyF8,
	20: event.KeyF9,
	21: event.KeyF10,
	23: event.KeyF11,
	24: event.KeyF12,
}

func decodeCSI(buf []byte) (event.Event, int) {
	i := 2
	for i < len(buf) && buf[i] >= 0x20 && buf[i] <= 0x3f {
		i++
	}
	if i >= len(buf) {
		return nil, 0
	}
	final := buf[i]
	if final < 0x40 || final > 0x7e {
		// Malformed: surface the escape and let the rest decode as text.
		return event.Key{Type: event.KeyEsc}, 1
	}
	params := string(buf[2:i])
	n := i + 1

	if strings.HasPrefix(params, "<") && (final == 'M' || final == 'm') {
		if ev, ok := decodeSGRMouse(params[1:], final == 'm'); ok {
			return ev, n
		}
		return nil, n
	}

	fields := splitParams(params)
	switch final {
	case 'I':
		return event.Focus{}, n
	case 'O':
		return event.Blur{}, n
	case 'Z':
		return event.Key{Type: event.KeyTab, Shift: true}, n
	case '~':
		if len(fields) == 0 {
			return nil, n
		}
		t, ok := csiTildeKeys[fields[0]]
		if !ok {
			return nil, n
		}
		k := event.Key{Type: t}
		if len(fields) > 1 {
			applyModifier(&k, fields[1])
		}
		return k, n
	}
	if t, ok := csiFinalKeys[final]; ok {
		k := event.Key{Type: t}
		if len(fields) > 1 {
			applyModifier(&k, fields[1])
		}
		return k, n
	}
	return nil, n
}

// applyModifier decodes the xterm modifier parameter (1 + bitmask).
func applyModifier(k *event.Key, p int) {
	m := p - 1
	if m <= 0 {
		return
	}
	k.Shift = m&1 != 0
	k.Alt = m&2 != 0
	k.Ctrl = m&4 != 0
}

func splitParams(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			v = 0
		}
		out = append(out, v)
	}
	return out
}

func decodeSGRMouse(params string, release bool) (event.Event, bool) {
	f := splitParams(params)
	if len(f) != 3 {
		return nil, false
	}
	code, x, y := f[0], f[1], f[2]
	m := event.Mouse{
		X:      x - 1,
		Y:      y - 1,
		Shift:  code&4 != 0,
		Alt:    code&8 != 0,
		Ctrl:   code&16 != 0,
		Action: event.MousePress,
	}
	motion := code&32 != 0
	wheel := code&64 != 0
	switch base := code & 3; {
	case wheel:
		m.Button = [...]event.MouseButton{event.MouseWheelUp, event.MouseWheelDown, event.MouseWheelLeft, event.MouseWheelRight}[base]
	case base == 3:
		m.Button = event.MouseNone
	default:
		m.Button = [...]event.MouseButton{event.MouseLeft, event.MouseMiddle, event.MouseRight}[base]
	}
	switch {
	case release:
		m.Action = event.MouseRelease
	case motion:
		m.Action = event.MouseMotion
	}
	return m, true
}
