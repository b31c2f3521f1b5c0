package widgets

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/require"
)

func TestSpinnerSubscription(t *testing.T) {
	s := NewSpinner("loading", "Fetching")
	subs := s.Subscriptions()
	require.Len(t, subs, 1)
	require.Equal(t, "loading", string(subs[0].ID))
	require.True(t, subs[0].IsAnimated())

	s.Stop()
	require.Empty(t, s.Subscriptions())
	require.Equal(t, "Fetching", s.View())
}

func TestSpinnerFrames(t *testing.T) {
	s := NewSpinner("loading", "Fetching")
	s.Kind = spinner.Line
	require.Equal(t, "| Fetching", s.View())

	s.Update(SpinnerTickMsg{ID: "loading"})
	require.Equal(t, "/ Fetching", s.View())
	s.Update(SpinnerTickMsg{ID: "other"})
	require.Equal(t, 1, s.Frame())

	for range 3 {
		s.Update(SpinnerTickMsg{ID: "loading"})
	}
	require.Equal(t, 0, s.Frame())

	s.Label = ""
	require.Equal(t, "|", s.View())
}
