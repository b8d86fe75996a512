package styles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ThemeFile is a custom theme definition loaded from YAML.
type ThemeFile struct {
	Name        string      `yaml:"name"`
	Author      string      `yaml:"author,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Version     string      `yaml:"version"`
	Colors      ThemeColors `yaml:"colors"`
}

// ThemeColors holds hex colors (#RGB or #RRGGBB). Highlight is optional
// and defaults to Surface.
type ThemeColors struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Warning   string `yaml:"warning"`
	Error     string `yaml:"error"`
	Muted     string `yaml:"muted"`
	Surface   string `yaml:"surface"`
	Text      string `yaml:"text"`
	Border    string `yaml:"border"`
	Highlight string `yaml:"highlight,omitempty"`
}

var hexColorRegex = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

func isValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// LoadThemeFile reads and validates a theme file.
func LoadThemeFile(path string) (*ThemeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}

	var theme ThemeFile
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("parsing theme file: %w", err)
	}

	if err := theme.Validate(); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}

	return &theme, nil
}

// Validate checks that the theme file is well-formed.
func (t *ThemeFile) Validate() error {
	if t.Name == "" {
		return errors.New("theme name is required")
	}
	if t.Version != "1" {
		return fmt.Errorf("unsupported theme version %q (supported: 1)", t.Version)
	}

	required := []struct{ name, value string }{
		{"primary", t.Colors.Primary},
		{"secondary", t.Colors.Secondary},
		{"warning", t.Colors.Warning},
		{"error", t.Colors.Error},
		{"muted", t.Colors.Muted},
		{"surface", t.Colors.Surface},
		{"text", t.Colors.Text},
		{"border", t.Colors.Border},
	}
	for _, c := range required {
		if c.value == "" {
			return fmt.Errorf("color '%s' is required", c.name)
		}
		if !isValidHexColor(c.value) {
			return fmt.Errorf("color '%s' has invalid format: %s (expected #RGB or #RRGGBB)", c.name, c.value)
		}
	}
	if t.Colors.Highlight != "" && !isValidHexColor(t.Colors.Highlight) {
		return fmt.Errorf("color 'highlight' has invalid format: %s (expected #RGB or #RRGGBB)", t.Colors.Highlight)
	}
	return nil
}

// ToPalette converts the theme file to a ColorPalette.
func (t *ThemeFile) ToPalette() *ColorPalette {
	highlight := t.Colors.Highlight
	if highlight == "" {
		highlight = t.Colors.Surface
	}
	return &ColorPalette{
		Primary:   lipgloss.Color(t.Colors.Primary),
		Secondary: lipgloss.Color(t.Colors.Secondary),
		Warning:   lipgloss.Color(t.Colors.Warning),
		Error:     lipgloss.Color(t.Colors.Error),
		Muted:     lipgloss.Color(t.Colors.Muted),
		Surface:   lipgloss.Color(t.Colors.Surface),
		Text:      lipgloss.Color(t.Colors.Text),
		Border:    lipgloss.Color(t.Colors.Border),
		Highlight: lipgloss.Color(highlight),
	}
}

// Catalog resolves theme names to palettes: built-ins first, then custom
// themes discovered on disk.
type Catalog struct {
	custom map[ThemeName]*ThemeFile
}

// NewCatalog returns a catalog holding only the built-in themes.
func NewCatalog() *Catalog {
	return &Catalog{custom: make(map[ThemeName]*ThemeFile)}
}

// Discover loads every *.yaml / *.yml file in dir as a custom theme named
// after the file. A missing dir is not an error. Files that fail to load,
// or that would shadow a built-in theme, are reported and skipped.
func (c *Catalog) Discover(dir string) (loaded []string, errs []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, []error{fmt.Errorf("reading themes directory: %w", err)}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		file := entry.Name()
		ext := filepath.Ext(file)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		name := strings.TrimSuffix(file, ext)
		if IsBuiltinTheme(name) {
			errs = append(errs, fmt.Errorf("%s: cannot override built-in theme '%s'", file, name))
			continue
		}

		theme, err := LoadThemeFile(filepath.Join(dir, file))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		c.custom[ThemeName(name)] = theme
		loaded = append(loaded, name)
	}
	return loaded, errs
}

// Names returns built-in and custom theme names, sorted.
func (c *Catalog) Names() []string {
	names := BuiltinThemes()
	for name := range c.custom {
		names = append(names, string(name))
	}
	slices.Sort(names)
	return names
}

// Palette returns the palette for name, or the default palette and false
// when the name is unknown.
func (c *Catalog) Palette(name string) (*ColorPalette, bool) {
	if ctor, ok := builtins[ThemeName(name)]; ok {
		return ctor(), true
	}
	if theme, ok := c.custom[ThemeName(name)]; ok {
		return theme.ToPalette(), true
	}
	return DefaultPalette(), false
}

// Theme returns the custom theme file registered under name.
func (c *Catalog) Theme(name string) (*ThemeFile, bool) {
	t, ok := c.custom[ThemeName(name)]
	return t, ok
}

// FromPalette builds a theme file holding p's colors, as a starting point
// for a custom theme.
func FromPalette(name string, p *ColorPalette) *ThemeFile {
	return &ThemeFile{
		Name:    name,
		Version: "1",
		Colors: ThemeColors{
			Primary:   string(p.Primary),
			Secondary: string(p.Secondary),
			Warning:   string(p.Warning),
			Error:     string(p.Error),
			Muted:     string(p.Muted),
			Surface:   string(p.Surface),
			Text:      string(p.Text),
			Border:    string(p.Border),
			Highlight: string(p.Highlight),
		},
	}
}

// Marshal renders the theme as YAML.
func (t *ThemeFile) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshaling theme: %w", err)
	}
	return data, nil
}

// Save validates the theme and writes it to path, creating the directory.
func (t *ThemeFile) Save(path string) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid theme: %w", err)
	}
	data, err := t.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating themes directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing theme file: %w", err)
	}
	return nil
}
