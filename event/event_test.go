package event

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{name: "rune", key: Key{Type: KeyRunes, Runes: []rune{'q'}}, want: "q"},
		{name: "ctrl", key: Key{Type: KeyRunes, Runes: []rune{'c'}, Ctrl: true}, want: "ctrl+c"},
		{name: "alt_enter", key: Key{Type: KeyEnter, Alt: true}, want: "alt+enter"},
		{name: "shift_tab", key: Key{Type: KeyTab, Shift: true}, want: "shift+tab"},
		{name: "arrow", key: Key{Type: KeyUp}, want: "up"},
		{name: "function", key: Key{Type: KeyF5}, want: "f5"},
		{name: "space", key: Key{Type: KeySpace, Runes: []rune{' '}}, want: "space"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestKeyMatchesBindings(t *testing.T) {
	quit := key.NewBinding(key.WithKeys("q", "ctrl+c"))
	require.True(t, key.Matches(Key{Type: KeyRunes, Runes: []rune{'q'}}, quit))
	require.True(t, key.Matches(Key{Type: KeyRunes, Runes: []rune{'c'}, Ctrl: true}, quit))
	require.False(t, key.Matches(Key{Type: KeyRunes, Runes: []rune{'c'}}, quit))
}

func TestKeyRune(t *testing.T) {
	require.Equal(t, 'x', Key{Type: KeyRunes, Runes: []rune{'x'}}.Rune())
	require.Equal(t, rune(0), Key{Type: KeyEnter}.Rune())
}
