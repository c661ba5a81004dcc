// Package styles holds the colour palette and shared lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles.
type Theme struct {
	Primary   lipgloss.Color // accents, the skin name
	Secondary lipgloss.Color

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	// Background is the undimmed colour of the playfield backdrop.
	Background lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	Playing lipgloss.Color
	Paused  lipgloss.Color
	Error   lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Playing lipgloss.Style
	Paused  lipgloss.Style
	Error   lipgloss.Style
	Panel   lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#ff66aa"),
	Secondary: lipgloss.Color("#66ccff"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	Background: lipgloss.Color("#3b6ea5"),

	Border:      lipgloss.Color("#585858"),
	BorderFocus: lipgloss.Color("#ff66aa"),

	Playing: lipgloss.Color("#42b883"),
	Paused:  lipgloss.Color("#f1a208"),
	Error:   lipgloss.Color("#ff5555"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:    base,
		Muted:   lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:  lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:   base.Bold(true),
		Playing: lipgloss.NewStyle().Foreground(t.Playing).Bold(true),
		Paused:  lipgloss.NewStyle().Foreground(t.Paused).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}
