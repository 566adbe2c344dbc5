// Package theme styles mathprobe's terminal output.
package theme

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Mastery bands used to colour levels.
const (
	StrongAt = 0.8
	FairAt   = 0.5
)

// Styles is the set of styles one command renders with. The zero-colour
// variant leaves text untouched so output can be piped or compared.
type Styles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Label   lipgloss.Style
	Dim     lipgloss.Style
	Good    lipgloss.Style
	Fair    lipgloss.Style
	Poor    lipgloss.Style
	Card    lipgloss.Style

	barFilled lipgloss.Style
	barEmpty  lipgloss.Style
}

// New returns the coloured styles, or plain ones when color is false.
func New(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{
			Title: plain, Heading: plain, Label: plain, Dim: plain,
			Good: plain, Fair: plain, Poor: plain, Card: plain,
			barFilled: plain, barEmpty: plain,
		}
	}
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary),
		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary),
		Label: lipgloss.NewStyle().
			Foreground(Accent),
		Dim: lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true),
		Good: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),
		Fair: lipgloss.NewStyle().
			Foreground(Accent),
		Poor: lipgloss.NewStyle().
			Foreground(Error).
			Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1),
		barFilled: lipgloss.NewStyle().Foreground(Secondary),
		barEmpty:  lipgloss.NewStyle().Foreground(Border),
	}
}

// Level picks the style for a proportion in [0, 1].
func (s Styles) Level(p float64) lipgloss.Style {
	switch {
	case p >= StrongAt:
		return s.Good
	case p >= FairAt:
		return s.Fair
	default:
		return s.Poor
	}
}

// Bar renders p as a horizontal bar of width cells. p is clamped to [0, 1].
func (s Styles) Bar(p float64, width int) string {
	width = max(width, 1)
	filled := int(float64(width)*p + 0.5)
	filled = min(max(filled, 0), width)
	return s.barFilled.Render(strings.Repeat("█", filled)) +
		s.barEmpty.Render(strings.Repeat("░", width-filled))
}
