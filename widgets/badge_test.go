package widgets

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestBadgePresets(t *testing.T) {
	tests := []struct {
		badge   StatusBadge
		label   string
		variant BadgeVariant
	}{
		{Online(), "Online", BadgeSuccess},
		{Offline(), "Offline", BadgeError},
		{Paused(), "Paused", BadgeWarning},
		{Loading(), "Loading", BadgeInfo},
		{Unknown(), "Unknown", BadgeNeutral},
	}
	for _, tt := range tests {
		require.Equal(t, tt.label, tt.badge.Label)
		require.Equal(t, tt.variant, tt.badge.Variant)
		require.True(t, tt.badge.Emoji)
	}
}

func TestBadgeVariantGlyphs(t *testing.T) {
	require.Equal(t, "🟢", BadgeSuccess.Emoji())
	require.Equal(t, "🔴", BadgeError.Emoji())
	require.Equal(t, "🟡", BadgeWarning.Emoji())
	require.Equal(t, "○", BadgeNeutral.Icon())
	require.Equal(t, "●", BadgeInfo.Icon())
	require.Equal(t, colorSuccess, BadgeSuccess.Color())
	require.Equal(t, colorError, BadgeError.Color())
}

func TestBadgeOverrides(t *testing.T) {
	b := NewStatusBadge("Building", BadgeInfo)
	b.Icon = "🔨"
	require.Equal(t, "🔨", b.EffectiveIcon())
	require.Equal(t, "🔨 Building", b.Render())

	b.Color = lipgloss.Color("#ffffff")
	require.Equal(t, lipgloss.Color("#ffffff"), b.EffectiveColor())

	plain := StatusBadge{Label: "Down", Variant: BadgeError}
	require.Equal(t, "● Down", plain.Render())

	plain.HideIcon = true
	require.Equal(t, "Down", plain.View())
}

func TestBadgeRenderContainsLabel(t *testing.T) {
	require.Equal(t, "🟢 Online", Online().Render())
}
