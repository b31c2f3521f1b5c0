package widgets

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/event"
)

// BadgeVariant selects a badge's default icon and color.
type BadgeVariant int

const (
	BadgeNeutral BadgeVariant = iota
	BadgeSuccess
	BadgeError
	BadgeWarning
	BadgeInfo
)

func (v BadgeVariant) String() string {
	switch v {
	case BadgeSuccess:
		return "success"
	case BadgeError:
		return "error"
	case BadgeWarning:
		return "warning"
	case BadgeInfo:
		return "info"
	}
	return "neutral"
}

// Icon is the plain glyph drawn in the variant color.
func (v BadgeVariant) Icon() string {
	if v == BadgeNeutral {
		return "○"
	}
	return "●"
}

func (v BadgeVariant) Emoji() string {
	switch v {
	case BadgeSuccess:
		return "🟢"
	case BadgeError:
		return "🔴"
	case BadgeWarning:
		return "🟡"
	case BadgeInfo:
		return "🔵"
	}
	return "⚪"
}

func (v BadgeVariant) Color() lipgloss.TerminalColor {
	switch v {
	case BadgeSuccess:
		return colorSuccess
	case BadgeError:
		return colorError
	case BadgeWarning:
		return colorWarning
	case BadgeInfo:
		return colorAccent
	}
	return colorTabOff
}

// StatusBadge is a colored status indicator: an icon followed by a label.
type StatusBadge struct {
	Label   string
	Variant BadgeVariant
	// Icon overrides the variant icon.
	Icon string
	// Color overrides the variant color.
	Color    lipgloss.TerminalColor
	Emoji    bool
	HideIcon bool
}

// NewStatusBadge returns a badge that uses emoji icons.
func NewStatusBadge(label string, variant BadgeVariant) StatusBadge {
	return StatusBadge{Label: label, Variant: variant, Emoji: true}
}

func Online() StatusBadge  { return NewStatusBadge("Online", BadgeSuccess) }
func Offline() StatusBadge { return NewStatusBadge("Offline", BadgeError) }
func Paused() StatusBadge  { return NewStatusBadge("Paused", BadgeWarning) }
func Loading() StatusBadge { return NewStatusBadge("Loading", BadgeInfo) }
func Unknown() StatusBadge { return NewStatusBadge("Unknown", BadgeNeutral) }

func (b StatusBadge) EffectiveIcon() string {
	switch {
	case b.Icon != "":
		return b.Icon
	case b.Emoji:
		return b.Variant.Emoji()
	}
	return b.Variant.Icon()
}

func (b StatusBadge) EffectiveColor() lipgloss.TerminalColor {
	if b.Color != nil {
		return b.Color
	}
	return b.Variant.Color()
}

// Render draws the badge on one line.
func (b StatusBadge) Render() string {
	if b.HideIcon {
		return b.Label
	}
	icon := b.EffectiveIcon()
	// Emoji carry their own color.
	if b.Icon == "" && b.Emoji {
		return icon + " " + b.Label
	}
	return lipgloss.NewStyle().Foreground(b.EffectiveColor()).Render(icon) + " " + b.Label
}

func (b StatusBadge) Init() core.Cmd                   { return nil }
func (b StatusBadge) Update(core.Msg) core.Cmd         { return nil }
func (b StatusBadge) View() string                     { return b.Render() }
func (b StatusBadge) HandleEvent(event.Event) core.Msg { return nil }
