// Package styles holds the color palette and shared lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	Primary   lipgloss.Color // current track, focused borders
	Secondary lipgloss.Color // mode icons

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	BgCursor lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	Error lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles for common UI patterns.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Playing lipgloss.Style // current track
	Cursor  lipgloss.Style
	Mode    lipgloss.Style
	Error   lipgloss.Style

	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#4fb3bf"), // tide teal
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c8c8c8"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	BgCursor: lipgloss.Color("#2d3436"),

	Border:      lipgloss.Color("#585858"),
	BorderFocus: lipgloss.Color("#4fb3bf"),

	Error: lipgloss.Color("#ff5555"),
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

// PanelStyle returns the bordered panel style for the focus state.
func (t *Theme) PanelStyle(focused bool) lipgloss.Style {
	if focused {
		return t.S().PanelFocused
	}
	return t.S().Panel
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	panel := lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder())

	return &Styles{
		Base:   base,
		Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  base.Bold(true),
		Playing: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Background(t.BgCursor).
			Foreground(t.FgBase),
		Mode:  lipgloss.NewStyle().Foreground(t.Secondary),
		Error: lipgloss.NewStyle().Foreground(t.Error),

		Panel:        panel.BorderForeground(t.Border),
		PanelFocused: panel.BorderForeground(t.BorderFocus),
	}
}
