package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Built-in theme names.
const (
	ThemeDefault        ThemeName = "default"         // Violet/green on dark
	ThemeNord           ThemeName = "nord"            // Cool blue-gray
	ThemeDracula        ThemeName = "dracula"         // Dracula
	ThemeGruvbox        ThemeName = "gruvbox"         // Gruvbox dark
	ThemeSolarizedLight ThemeName = "solarized-light" // For light terminals
)

var builtins = map[ThemeName]func() *ColorPalette{
	ThemeDefault:        DefaultPalette,
	ThemeNord:           NordPalette,
	ThemeDracula:        DraculaPalette,
	ThemeGruvbox:        GruvboxPalette,
	ThemeSolarizedLight: SolarizedLightPalette,
}

// BuiltinThemes returns the built-in theme names, sorted.
func BuiltinThemes() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, string(name))
	}
	slices.Sort(names)
	return names
}

// IsBuiltinTheme reports whether name is a built-in theme.
func IsBuiltinTheme(name string) bool {
	_, ok := builtins[ThemeName(name)]
	return ok
}

// ColorPalette is the set of colors a theme defines.
type ColorPalette struct {
	Primary   lipgloss.Color // Title, open triggers, focused input border
	Secondary lipgloss.Color // Counts, selected dropdown item
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color // Placeholders, footer, help descriptions
	Surface   lipgloss.Color // Dropdown panel and status bar background
	Text      lipgloss.Color
	Border    lipgloss.Color
	Highlight lipgloss.Color // Selected table row background
}

// DefaultPalette returns the default violet/green dark palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"),
		Secondary: lipgloss.Color("#10B981"),
		Warning:   lipgloss.Color("#F59E0B"),
		Error:     lipgloss.Color("#F87171"),
		Muted:     lipgloss.Color("#9CA3AF"),
		Surface:   lipgloss.Color("#1F2937"),
		Text:      lipgloss.Color("#F9FAFB"),
		Border:    lipgloss.Color("#6B7280"),
		Highlight: lipgloss.Color("#4C1D95"),
	}
}

// NordPalette returns the Nord palette.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"),
		Secondary: lipgloss.Color("#A3BE8C"),
		Warning:   lipgloss.Color("#EBCB8B"),
		Error:     lipgloss.Color("#BF616A"),
		Muted:     lipgloss.Color("#81A1C1"),
		Surface:   lipgloss.Color("#3B4252"),
		Text:      lipgloss.Color("#ECEFF4"),
		Border:    lipgloss.Color("#4C566A"),
		Highlight: lipgloss.Color("#434C5E"),
	}
}

// DraculaPalette returns the Dracula palette.
func DraculaPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#BD93F9"),
		Secondary: lipgloss.Color("#50FA7B"),
		Warning:   lipgloss.Color("#F1FA8C"),
		Error:     lipgloss.Color("#FF5555"),
		Muted:     lipgloss.Color("#6272A4"),
		Surface:   lipgloss.Color("#282A36"),
		Text:      lipgloss.Color("#F8F8F2"),
		Border:    lipgloss.Color("#6272A4"),
		Highlight: lipgloss.Color("#44475A"),
	}
}

// GruvboxPalette returns the Gruvbox dark palette.
func GruvboxPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#FE8019"),
		Secondary: lipgloss.Color("#B8BB26"),
		Warning:   lipgloss.Color("#FABD2F"),
		Error:     lipgloss.Color("#FB4934"),
		Muted:     lipgloss.Color("#A89984"),
		Surface:   lipgloss.Color("#3C3836"),
		Text:      lipgloss.Color("#EBDBB2"),
		Border:    lipgloss.Color("#665C54"),
		Highlight: lipgloss.Color("#504945"),
	}
}

// SolarizedLightPalette returns Solarized Light, for light terminals.
func SolarizedLightPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#268BD2"),
		Secondary: lipgloss.Color("#859900"),
		Warning:   lipgloss.Color("#B58900"),
		Error:     lipgloss.Color("#DC322F"),
		Muted:     lipgloss.Color("#657B83"),
		Surface:   lipgloss.Color("#EEE8D5"),
		Text:      lipgloss.Color("#073642"),
		Border:    lipgloss.Color("#93A1A1"),
		Highlight: lipgloss.Color("#FDF6E3"),
	}
}
