package widgets

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inferadb/ferment/event"
)

func TestTabBuilderAssignsKeys(t *testing.T) {
	tabs := NewTabBuilder().
		Tab("home", "Home").
		TabWithKey("settings", "Settings", 's').
		Tab("history", "History").
		Tab("queue", "Queue").
		Build()

	got := tabs.Tabs()
	require.Len(t, got, 4)
	require.Equal(t, 'h', got[0].Key)
	require.Equal(t, 's', got[1].Key)
	require.Equal(t, 'i', got[2].Key)
	require.Equal(t, 'u', got[3].Key)
	require.Equal(t, "home", tabs.Selected())
}

func TestTabBarKeys(t *testing.T) {
	tabs := NewTabBuilder().Tab("home", "Home").Tab("settings", "Settings").Build()

	msg := tabs.HandleEvent(event.Key{Type: event.KeyRunes, Runes: []rune{'S'}})
	require.Equal(t, TabSelectedMsg{ID: "settings"}, msg)
	tabs.Update(msg)
	require.Equal(t, "settings", tabs.Selected())

	tabs.Update(tabs.HandleEvent(event.Key{Type: event.KeyTab}))
	require.Equal(t, "home", tabs.Selected())
	tabs.Update(tabs.HandleEvent(event.Key{Type: event.KeyTab, Shift: true}))
	require.Equal(t, "settings", tabs.Selected())

	require.Nil(t, tabs.HandleEvent(event.Key{Type: event.KeyRunes, Runes: []rune{'z'}}))
	tabs.SetSelected("missing")
	require.Equal(t, "settings", tabs.Selected())
}

func TestTabBarRender(t *testing.T) {
	tabs := NewTabBuilder().Tab("home", "Home").Tab("settings", "Settings").Build()
	require.Equal(t, "[h] Home  [s] Settings", tabs.View())
}
