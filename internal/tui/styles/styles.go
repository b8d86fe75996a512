// Package styles defines the dashboard's lipgloss styles and color themes.
package styles

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Styles is the full set of styles the dashboard renders with, derived
// from one ColorPalette.
type Styles struct {
	Palette *ColorPalette

	// Text
	Title   lipgloss.Style
	Count   lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Toolbar
	Trigger     lipgloss.Style
	TriggerOpen lipgloss.Style

	// Filter row
	FilterCell        lipgloss.Style
	FilterCellFocused lipgloss.Style

	// Dropdown panel
	Panel         lipgloss.Style
	PanelItem     lipgloss.Style
	PanelSelected lipgloss.Style

	// Bottom
	Footer    lipgloss.Style
	StatusBar lipgloss.Style
	HelpKey   lipgloss.Style
	HelpDesc  lipgloss.Style
}

// New derives the styles from p. A nil palette means DefaultPalette.
func New(p *ColorPalette) *Styles {
	if p == nil {
		p = DefaultPalette()
	}
	return &Styles{
		Palette: p,

		Title:   lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Count:   lipgloss.NewStyle().Bold(true).Foreground(p.Secondary),
		Muted:   lipgloss.NewStyle().Foreground(p.Muted),
		Warning: lipgloss.NewStyle().Foreground(p.Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(p.Error),

		Trigger: lipgloss.NewStyle().
			Foreground(p.Text).
			Padding(0, 1),
		TriggerOpen: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Surface).
			Background(p.Primary).
			Padding(0, 1),

		FilterCell: lipgloss.NewStyle().
			Foreground(p.Text).
			Underline(true).
			UnderlineSpaces(true),
		FilterCellFocused: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			Underline(true).
			UnderlineSpaces(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Background(p.Surface).
			Padding(0, 1),
		PanelItem: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface),
		PanelSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Secondary).
			Background(p.Surface),

		Footer: lipgloss.NewStyle().Foreground(p.Muted),
		StatusBar: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			Padding(0, 1),
		HelpKey:  lipgloss.NewStyle().Bold(true).Foreground(p.Secondary),
		HelpDesc: lipgloss.NewStyle().Foreground(p.Muted),
	}
}

// Table returns bubbles table styles in the palette's colors.
func (s *Styles) Table() table.Styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(s.Palette.Border).
		BorderBottom(true).
		Bold(true).
		Foreground(s.Palette.Primary)
	ts.Selected = ts.Selected.
		Bold(false).
		Foreground(s.Palette.Text).
		Background(s.Palette.Highlight)
	return ts
}

// Help returns bubbles help styles in the palette's colors.
func (s *Styles) Help() help.Styles {
	hs := help.New().Styles
	hs.ShortKey = s.HelpKey
	hs.ShortDesc = s.HelpDesc
	hs.ShortSeparator = s.Muted
	hs.FullKey = s.HelpKey
	hs.FullDesc = s.HelpDesc
	hs.FullSeparator = s.Muted
	hs.Ellipsis = s.Muted
	return hs
}
