package widgets

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/inferadb/ferment/event"
)

func TestSelectMatch(t *testing.T) {
	s := NewSelect("Fruit?", "Apple", "Banana", "Cherry")
	tests := map[string]int{
		"2":       1,
		"banana":  1,
		" APPLE ": 0,
		"ch":      2,
		"bananna": 1,
		"chery":   2,
		"zzz":     -1,
		"0":       -1,
		"4":       -1,
		"":        -1,
	}
	for in, want := range tests {
		require.Equal(t, want, s.match(in), in)
	}

	ambiguous := NewSelect("Color?", "Blue", "Black")
	require.Equal(t, -1, ambiguous.match("bl"))
	require.Equal(t, 0, ambiguous.match("blu"))
}

func TestSelectKeys(t *testing.T) {
	s := NewSelect("Fruit?", "Apple", "Banana", "Cherry")
	s.Update(s.HandleEvent(event.Key{Type: event.KeyUp}))
	require.Equal(t, 2, s.Cursor())
	s.Update(s.HandleEvent(event.Key{Type: event.KeyRunes, Runes: []rune{'j'}}))
	require.Equal(t, 0, s.Cursor())
	require.Equal(t, "Fruit?\n> Apple\n  Banana\n  Cherry", ansi.Strip(s.View()))

	cmd := s.Update(s.HandleEvent(event.Key{Type: event.KeyEnter}))
	require.NotNil(t, cmd)
	require.Equal(t, 0, s.Chosen())
	require.True(t, s.IsAccessibleComplete())
	require.Equal(t, "Fruit? Apple", ansi.Strip(s.View()))
}

func TestSelectDigitChooses(t *testing.T) {
	s := NewSelect("Fruit?", "Apple", "Banana")
	require.Nil(t, s.HandleEvent(event.Key{Type: event.KeyRunes, Runes: []rune{'3'}}))
	s.Update(s.HandleEvent(event.Key{Type: event.KeyRunes, Runes: []rune{'2'}}))
	require.Equal(t, 1, s.Chosen())
}

func TestSelectAccessibleRun(t *testing.T) {
	s := NewSelect("Fruit?", "Apple", "Banana")
	m, out := runAccessible(t, s, "kiwi\nbananaa\n")
	require.Equal(t, 1, m.(*Select).Chosen())
	prompt := "Fruit?\n  1) Apple\n  2) Banana\nEnter a number (1-2) or name:\n"
	require.Equal(t, prompt+"Invalid input, try again.\n"+prompt+"Fruit? Banana\n", out)
}
