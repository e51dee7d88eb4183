package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/xpquest/internal/tiers"
)

// Color palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Partial   = lipgloss.Color("#EAB308") // Yellow
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Tier colors
var (
	BronzeColor   = lipgloss.Color("#CD7F32")
	SilverColor   = lipgloss.Color("#C0C0C0")
	GoldColor     = lipgloss.Color("#FFD700")
	PlatinumColor = lipgloss.Color("#A5F3FC")
)

// TierColor returns the display color for t.
func TierColor(t tiers.Tier) color.Color {
	switch t {
	case tiers.Bronze:
		return BronzeColor
	case tiers.Silver:
		return SilverColor
	case tiers.Gold:
		return GoldColor
	case tiers.Platinum:
		return PlatinumColor
	default:
		return Text
	}
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Muted = lipgloss.NewStyle().
		Foreground(TextDim)
)

// Card frames grouped content such as feedback and summaries.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)
