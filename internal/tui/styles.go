package tui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"

	"legato/internal/timing"
)

// Theme bundles the lipgloss styles for one catppuccin flavor.
type Theme struct {
	flavor catppuccin.Flavour

	Title      lipgloss.Style
	Status     lipgloss.Style
	StateRec   lipgloss.Style
	StateIdle  lipgloss.Style
	Muted      lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style

	RowLabel  lipgloss.Style
	HeldBadge lipgloss.Style
	UpBadge   lipgloss.Style
	Axis      lipgloss.Style

	barClean    lipgloss.Style
	barMinor    lipgloss.Style
	barModerate lipgloss.Style
	barSevere   lipgloss.Style

	ScoreGood lipgloss.Style
	ScoreFair lipgloss.Style
	ScorePoor lipgloss.Style
}

// flavorByName resolves a config theme name, defaulting to mocha.
func flavorByName(name string) catppuccin.Flavour {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

// NewTheme builds the style set for the named catppuccin flavor.
func NewTheme(name string) Theme {
	f := flavorByName(name)
	col := func(c catppuccin.Color) lipgloss.Color { return lipgloss.Color(c.Hex) }

	return Theme{
		flavor: f,

		Title:      lipgloss.NewStyle().Bold(true).Foreground(col(f.Lavender())),
		Status:     lipgloss.NewStyle().Foreground(col(f.Subtext0())),
		StateRec:   lipgloss.NewStyle().Bold(true).Foreground(col(f.Red())),
		StateIdle:  lipgloss.NewStyle().Foreground(col(f.Overlay1())),
		Muted:      lipgloss.NewStyle().Foreground(col(f.Overlay0())),
		Help:       lipgloss.NewStyle().Foreground(col(f.Overlay1())),
		Error:      lipgloss.NewStyle().Bold(true).Foreground(col(f.Red())),
		Panel:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(col(f.Surface1())).Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().Bold(true).Italic(true).Foreground(col(f.Overlay1())),

		RowLabel:  lipgloss.NewStyle().Bold(true).Foreground(col(f.Sky())),
		HeldBadge: lipgloss.NewStyle().Bold(true).Foreground(col(f.Green())),
		UpBadge:   lipgloss.NewStyle().Foreground(col(f.Overlay0())),
		Axis:      lipgloss.NewStyle().Foreground(col(f.Surface2())),

		barClean:    lipgloss.NewStyle().Foreground(col(f.Blue())),
		barMinor:    lipgloss.NewStyle().Foreground(col(f.Yellow())),
		barModerate: lipgloss.NewStyle().Foreground(col(f.Peach())),
		barSevere:   lipgloss.NewStyle().Foreground(col(f.Red())),

		ScoreGood: lipgloss.NewStyle().Bold(true).Foreground(col(f.Green())),
		ScoreFair: lipgloss.NewStyle().Bold(true).Foreground(col(f.Yellow())),
		ScorePoor: lipgloss.NewStyle().Bold(true).Foreground(col(f.Red())),
	}
}

// Bar returns the bar style for an overlap severity.
func (t Theme) Bar(s timing.Severity) lipgloss.Style {
	switch s {
	case timing.SeverityMinor:
		return t.barMinor
	case timing.SeverityModerate:
		return t.barModerate
	case timing.SeveritySevere:
		return t.barSevere
	default:
		return t.barClean
	}
}

// Score returns the style for a hygiene score value.
func (t Theme) Score(score float64) lipgloss.Style {
	switch {
	case score >= 80:
		return t.ScoreGood
	case score >= 50:
		return t.ScoreFair
	default:
		return t.ScorePoor
	}
}
