package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	appconfig "github.com/Iron-Ham/procdash/internal/config"
	"github.com/Iron-Ham/procdash/internal/errors"
	"github.com/Iron-Ham/procdash/internal/tui/styles"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage color themes",
	Long: `Manage color themes for the procdash dashboard.

procdash supports both built-in themes and custom user-defined themes.
Custom themes are stored in ~/.config/procdash/themes/ as YAML files.

Use 'theme list' to see all available themes.
Use 'theme export' to create a template for custom themes.
Use 'theme info' to view details about a specific theme.`,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available themes",
	RunE:  runThemeList,
}

var themeExportCmd = &cobra.Command{
	Use:   "export <theme-name> [output-file]",
	Short: "Export a theme to YAML",
	Long: `Export a theme to YAML format for customization or sharing.

If no output file is specified, the YAML is printed to stdout.

Examples:
  procdash config theme export default
  procdash config theme export nord my-theme.yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runThemeExport,
}

var themeInfoCmd = &cobra.Command{
	Use:   "info <theme-name>",
	Short: "Show information about a theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeInfo,
}

var themePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the custom themes directory path",
	RunE:  runThemePath,
}

var themeCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new custom theme from the default palette",
	Long: `Create a new custom theme file in your themes directory.

Example:
  procdash config theme create ocean
  # Creates ~/.config/procdash/themes/ocean.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runThemeCreate,
}

func init() {
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeExportCmd)
	themeCmd.AddCommand(themeInfoCmd)
	themeCmd.AddCommand(themePathCmd)
	themeCmd.AddCommand(themeCreateCmd)
	configCmd.AddCommand(themeCmd)
}

// loadCatalog discovers custom themes, returning the load errors keyed by
// file name.
func loadCatalog() (*styles.Catalog, []error) {
	catalog := styles.NewCatalog()
	_, errs := catalog.Discover(appconfig.ThemesDir())
	return catalog, errs
}

// lookupTheme resolves name, explaining a custom theme that failed to load.
func lookupTheme(name string) (*styles.Catalog, *styles.ColorPalette, error) {
	catalog, loadErrs := loadCatalog()
	palette, ok := catalog.Palette(name)
	if ok {
		return catalog, palette, nil
	}
	for _, err := range loadErrs {
		errStr := err.Error()
		if strings.HasPrefix(errStr, name+".yaml:") || strings.HasPrefix(errStr, name+".yml:") {
			return nil, nil, fmt.Errorf("theme '%s' exists but failed to load: %v\n\nFix the errors in your theme file and try again", name, err)
		}
	}
	return nil, nil, fmt.Errorf("%w\n\nRun 'procdash config theme list' to see available themes.\nCustom themes should be placed in: %s",
		errors.NewNotFoundError("theme", name), appconfig.ThemesDir())
}

func runThemeList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	catalog, loadErrs := loadCatalog()
	if len(loadErrs) > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: Some themes failed to load:")
		for _, err := range loadErrs {
			fmt.Fprintf(cmd.ErrOrStderr(), "  - %v\n", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr())
	}

	fmt.Fprintln(out, "Built-in themes:")
	for _, name := range styles.BuiltinThemes() {
		fmt.Fprintf(out, "  - %s\n", name)
	}

	var custom []string
	for _, name := range catalog.Names() {
		if !styles.IsBuiltinTheme(name) {
			custom = append(custom, name)
		}
	}
	if len(custom) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Custom themes:")
		for _, name := range custom {
			theme, _ := catalog.Theme(name)
			if theme != nil && theme.Author != "" {
				fmt.Fprintf(out, "  - %s (by %s)\n", name, theme.Author)
			} else {
				fmt.Fprintf(out, "  - %s\n", name)
			}
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Custom themes directory: %s\n", appconfig.ThemesDir())
	return nil
}

func runThemeExport(cmd *cobra.Command, args []string) error {
	name := args[0]
	catalog, palette, err := lookupTheme(name)
	if err != nil {
		return err
	}

	theme, ok := catalog.Theme(name)
	if !ok {
		theme = styles.FromPalette(name, palette)
	}
	data, err := theme.Marshal()
	if err != nil {
		return fmt.Errorf("exporting theme: %w", err)
	}

	if len(args) > 1 {
		outputPath := args[1]
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("writing to %s: %w", outputPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme exported to: %s\n", outputPath)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runThemeInfo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	name := args[0]
	catalog, palette, err := lookupTheme(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Theme: %s\n\n", name)
	if styles.IsBuiltinTheme(name) {
		fmt.Fprintln(out, "Type: Built-in")
	} else {
		fmt.Fprintln(out, "Type: Custom")
		if theme, ok := catalog.Theme(name); ok {
			if theme.Author != "" {
				fmt.Fprintf(out, "Author: %s\n", theme.Author)
			}
			if theme.Description != "" {
				fmt.Fprintf(out, "Description: %s\n", theme.Description)
			}
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Colors:")
	fmt.Fprintf(out, "  Primary:   %s\n", palette.Primary)
	fmt.Fprintf(out, "  Secondary: %s\n", palette.Secondary)
	fmt.Fprintf(out, "  Warning:   %s\n", palette.Warning)
	fmt.Fprintf(out, "  Error:     %s\n", palette.Error)
	fmt.Fprintf(out, "  Muted:     %s\n", palette.Muted)
	fmt.Fprintf(out, "  Surface:   %s\n", palette.Surface)
	fmt.Fprintf(out, "  Text:      %s\n", palette.Text)
	fmt.Fprintf(out, "  Border:    %s\n", palette.Border)
	fmt.Fprintf(out, "  Highlight: %s\n", palette.Highlight)
	return nil
}

func runThemePath(cmd *cobra.Command, args []string) error {
	themesDir := appconfig.ThemesDir()
	fmt.Fprintln(cmd.OutOrStdout(), themesDir)

	if _, err := os.Stat(themesDir); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), "Note: This directory does not exist yet.")
		fmt.Fprintln(cmd.OutOrStdout(), "It will be created when you add your first custom theme.")
	}
	return nil
}

func runThemeCreate(cmd *cobra.Command, args []string) error {
	name := args[0]

	if strings.ContainsAny(name, "/\\:*?\"<>|") {
		return fmt.Errorf("theme name contains invalid characters")
	}
	if styles.IsBuiltinTheme(name) {
		return fmt.Errorf("cannot create custom theme with built-in name '%s'", name)
	}

	themePath := filepath.Join(appconfig.ThemesDir(), name+".yaml")
	if _, err := os.Stat(themePath); err == nil {
		return fmt.Errorf("theme '%s' already exists at %s", name, themePath)
	}

	theme := styles.FromPalette(capitalizeFirst(name), styles.DefaultPalette())
	theme.Description = "A custom procdash theme"
	if err := theme.Save(themePath); err != nil {
		return fmt.Errorf("creating theme: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created new theme: %s\n\n", themePath)
	fmt.Fprintln(out, "Edit this file to customize your theme colors.")
	fmt.Fprintf(out, "To use it, run:\n  procdash config set tui.theme %s\n", name)
	return nil
}

// capitalizeFirst capitalizes the first character of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
