package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is a set of named colors.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
}

var (
	// Dark is the default exam-hall palette.
	Dark = Palette{
		Primary:   lipgloss.Color("#6366F1"), // Indigo
		Secondary: lipgloss.Color("#10B981"), // Emerald
		Accent:    lipgloss.Color("#F59E0B"), // Amber
		Success:   lipgloss.Color("#22C55E"),
		Error:     lipgloss.Color("#EF4444"),
		Text:      lipgloss.Color("#F8FAFC"),
		TextDim:   lipgloss.Color("#94A3B8"),
		BgCard:    lipgloss.Color("#1E293B"),
		Border:    lipgloss.Color("#334155"),
	}

	Light = Palette{
		Primary:   lipgloss.Color("#4338CA"),
		Secondary: lipgloss.Color("#059669"),
		Accent:    lipgloss.Color("#B45309"),
		Success:   lipgloss.Color("#15803D"),
		Error:     lipgloss.Color("#B91C1C"),
		Text:      lipgloss.Color("#0F172A"),
		TextDim:   lipgloss.Color("#475569"),
		BgCard:    lipgloss.Color("#F1F5F9"),
		Border:    lipgloss.Color("#CBD5E1"),
	}
)

// Current is the palette the styles below were built from.
var Current = Dark

// Typography
var (
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style
)

// Layout
var (
	Card lipgloss.Style
)

// States
var (
	Selected  lipgloss.Style
	Correct   lipgloss.Style
	Incorrect lipgloss.Style
	Skipped   lipgloss.Style
	Marked    lipgloss.Style
)

// Components
var (
	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
)

func init() {
	build(Dark)
}

// Use switches to the named palette ("dark" or "light"). Unknown names
// select Dark.
func Use(name string) {
	if name == "light" {
		build(Light)
		return
	}
	build(Dark)
}

func build(p Palette) {
	Current = p

	Title = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	Subtitle = lipgloss.NewStyle().Foreground(p.TextDim)
	Body = lipgloss.NewStyle().Foreground(p.Text)
	Hint = lipgloss.NewStyle().Foreground(p.TextDim).Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(1, 2)

	Selected = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	Correct = lipgloss.NewStyle().Foreground(p.Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	Skipped = lipgloss.NewStyle().Foreground(p.TextDim)
	Marked = lipgloss.NewStyle().Foreground(p.Accent)

	ProgressFilled = lipgloss.NewStyle().Background(p.Secondary)
	ProgressEmpty = lipgloss.NewStyle().Background(p.Border)
}

// ScoreStyle colors a percentage score: green from 70, amber from 50, red
// below.
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 70:
		return Correct
	case score >= 50:
		return lipgloss.NewStyle().Foreground(Current.Accent).Bold(true)
	default:
		return Incorrect
	}
}
