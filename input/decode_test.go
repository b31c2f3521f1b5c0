package input

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inferadb/ferment/event"
)

func TestDecoderKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "runes", in: "q+", want: []string{"q", "+"}},
		{name: "utf8", in: "é", want: []string{"é"}},
		{name: "enter", in: "\r", want: []string{"enter"}},
		{name: "tab", in: "\t", want: []string{"tab"}},
		{name: "backspace", in: "\x7f", want: []string{"backspace"}},
		{name: "ctrl_c", in: "\x03", want: []string{"ctrl+c"}},
		{name: "space", in: " ", want: []string{"space"}},
		{name: "lone_esc", in: "\x1b", want: []string{"esc"}},
		{name: "alt_rune", in: "\x1bx", want: []string{"alt+x"}},
		{name: "arrows", in: "\x1b[A\x1b[B\x1b[C\x1b[D", want: []string{"up", "down", "right", "left"}},
		{name: "ss3_arrows", in: "\x1bOA\x1bOD", want: []string{"up", "left"}},
		{name: "home_end", in: "\x1b[H\x1b[F\x1b[1~\x1b[4~", want: []string{"home", "end", "home", "end"}},
		{name: "paging", in: "\x1b[5~\x1b[6~", want: []string{"pgup", "pgdown"}},
		{name: "delete", in: "\x1b[3~", want: []string{"delete"}},
		{name: "shift_tab", in: "\x1b[Z", want: []string{"shift+tab"}},
		{name: "function", in: "\x1bOP\x1b[15~\x1b[24~", want: []string{"f1", "f5", "f12"}},
		{name: "ctrl_arrow", in: "\x1b[1;5C", want: []string{"ctrl+right"}},
		{name: "shift_alt_arrow", in: "\x1b[1;4A", want: []string{"alt+shift+up"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decoder
			evs := d.Feed([]byte(tt.in))
			var got []string
			for _, ev := range evs {
				k, ok := ev.(event.Key)
				require.True(t, ok, "unexpected %T", ev)
				got = append(got, k.String())
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecoderSplitSequence(t *testing.T) {
	var d Decoder
	require.Empty(t, d.Feed([]byte("\x1b[")))
	evs := d.Feed([]byte("A"))
	require.Equal(t, []event.Event{event.Key{Type: event.KeyUp}}, evs)
}

func TestDecoderPaste(t *testing.T) {
	var d Decoder
	evs := d.Feed([]byte("a\x1b[200~hello\x1b[A"))
	require.Equal(t, []event.Event{event.Key{Type: event.KeyRunes, Runes: []rune{'a'}}}, evs)

	evs = d.Feed([]byte(" world\x1b[201~b"))
	require.Equal(t, []event.Event{
		event.Paste{Text: "hello\x1b[A world"},
		event.Key{Type: event.KeyRunes, Runes: []rune{'b'}},
	}, evs)
}

func TestDecoderFocus(t *testing.T) {
	var d Decoder
	require.Equal(t, []event.Event{event.Focus{}, event.Blur{}}, d.Feed([]byte("\x1b[I\x1b[O")))
}

func TestDecoderMouse(t *testing.T) {
	var d Decoder
	evs := d.Feed([]byte("\x1b[<0;10;5M\x1b[<0;10;5m\x1b[<64;1;1M\x1b[<32;3;4M"))
	require.Equal(t, []event.Event{
		event.Mouse{X: 9, Y: 4, Button: event.MouseLeft, Action: event.MousePress},
		event.Mouse{X: 9, Y: 4, Button: event.MouseLeft, Action: event.MouseRelease},
		event.Mouse{X: 0, Y: 0, Button: event.MouseWheelUp, Action: event.MousePress},
		event.Mouse{X: 2, Y: 3, Button: event.MouseLeft, Action: event.MouseMotion},
	}, evs)
}

func TestDecoderFlush(t *testing.T) {
	var d Decoder
	require.Empty(t, d.Feed([]byte("\x1b[1;")))
	evs := d.Flush()
	require.Len(t, evs, 4)
	require.Equal(t, "esc", evs[0].(event.Key).String())
}
