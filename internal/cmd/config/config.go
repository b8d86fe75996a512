// Package config provides CLI commands for managing procdash configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appconfig "github.com/Iron-Ham/procdash/internal/config"
	"github.com/Iron-Ham/procdash/internal/tui/styles"
)

// Wrapper functions for exec to allow testing
var execLookPath = exec.LookPath
var execCommand = exec.Command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify procdash configuration",
	Long: `View or modify procdash configuration.

Use 'config show' to display the effective configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  procdash config set api.base_url https://procurement.example.com/api
  procdash config set tui.debounce_ms 300
  procdash config set tui.hidden_columns 'created-*,updated-at'

Valid keys:
  api.base_url              - API root URL (http or https)
  api.timeout_ms            - Request timeout in milliseconds
  api.requests_per_second   - Request pacing, 0 disables it
  api.burst                 - Requests allowed above the steady rate
  auth.cookie_name          - Cookie carrying the session token
  auth.session_file         - Session file path (empty: state directory)
  tui.debounce_ms           - Quiet period before typed filters apply
  tui.dropdown_offset       - Rows between a dropdown trigger and its panel
  tui.page_size             - Initial rows per page, one of tui.page_sizes
  tui.page_sizes            - Comma-separated page-size choices
  tui.hidden_columns        - Comma-separated column id globs hidden at startup
  tui.restore_attempts      - Focus restoration retries after a re-render
  tui.theme                 - Color theme (see 'procdash config theme list')
  logging.enabled           - Write the debug log (true/false)
  logging.level             - Minimum level: debug, info, warn, error
  logging.max_size_mb       - Log size before rotation
  logging.max_backups       - Rotated logs to keep
  logging.compress          - Gzip rotated logs (true/false)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/procdash/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in your editor",
	Long: `Open the config file in your preferred editor.

Uses $EDITOR environment variable, or falls back to common editors (vim, nano, vi).
If no config file exists, creates one with default values first. A running
dashboard picks up the saved changes.`,
	RunE: runConfigEdit,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset configuration to defaults",
	Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.

Examples:
  procdash config reset                 # Reset all to defaults
  procdash config reset tui.debounce_ms # Reset only tui.debounce_ms`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)
}

// Register adds all config-related commands to the given parent command.
// This is the main entry point for integrating the config subpackage with
// the root command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

// keyKind says how a value given on the command line is parsed.
type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
	kindIntList
	kindStringList
	kindURL
	kindTheme
	kindLevel
)

var validKeys = map[string]keyKind{
	"api.base_url":            kindURL,
	"api.timeout_ms":          kindInt,
	"api.requests_per_second": kindFloat,
	"api.burst":               kindInt,
	"auth.cookie_name":        kindString,
	"auth.session_file":       kindString,
	"tui.debounce_ms":         kindInt,
	"tui.dropdown_offset":     kindInt,
	"tui.page_size":           kindInt,
	"tui.page_sizes":          kindIntList,
	"tui.hidden_columns":      kindStringList,
	"tui.restore_attempts":    kindInt,
	"tui.theme":               kindTheme,
	"logging.enabled":         kindBool,
	"logging.level":           kindLevel,
	"logging.max_size_mb":     kindInt,
	"logging.max_backups":     kindInt,
	"logging.compress":        kindBool,
}

// defaultValues maps every settable key to its default.
func defaultValues() map[string]any {
	d := appconfig.Default()
	return map[string]any{
		"api.base_url":            d.API.BaseURL,
		"api.timeout_ms":          d.API.TimeoutMs,
		"api.requests_per_second": d.API.RequestsPerSecond,
		"api.burst":               d.API.Burst,
		"auth.cookie_name":        d.Auth.CookieName,
		"auth.session_file":       d.Auth.SessionFile,
		"tui.debounce_ms":         d.TUI.DebounceMs,
		"tui.dropdown_offset":     d.TUI.DropdownOffset,
		"tui.page_size":           d.TUI.PageSize,
		"tui.page_sizes":          d.TUI.PageSizes,
		"tui.hidden_columns":      d.TUI.HiddenColumns,
		"tui.restore_attempts":    d.TUI.RestoreAttempts,
		"tui.theme":               d.TUI.Theme,
		"logging.enabled":         d.Logging.Enabled,
		"logging.level":           d.Logging.Level,
		"logging.max_size_mb":     d.Logging.MaxSizeMB,
		"logging.max_backups":     d.Logging.MaxBackups,
		"logging.compress":        d.Logging.Compress,
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	if _, err := appconfig.Load(); err != nil {
		fmt.Fprintf(out, "Warning: configuration is invalid, the defaults are used instead:\n%v\n\n", err)
	}

	settings := make(map[string]any, len(validKeys))
	for key := range validKeys {
		settings[key] = viper.Get(key)
	}
	return writeNested(out, settings)
}

// writeNested prints dotted keys as nested YAML.
func writeNested(w io.Writer, flat map[string]any) error {
	nested := map[string]any{}
	for key, value := range flat {
		section, name, _ := strings.Cut(key, ".")
		m, ok := nested[section].(map[string]any)
		if !ok {
			m = map[string]any{}
			nested[section] = m
		}
		m[name] = value
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(nested); err != nil {
		return fmt.Errorf("rendering configuration: %w", err)
	}
	return enc.Close()
}

// parseValue converts value according to the key's kind.
func parseValue(key, value string) (any, error) {
	kind, ok := validKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'procdash config set --help' to see valid keys", key)
	}

	switch kind {
	case kindString:
		return value, nil
	case kindURL:
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return nil, fmt.Errorf("invalid value for %s: must start with http:// or https://", key)
		}
		return value, nil
	case kindTheme:
		catalog := styles.NewCatalog()
		_, _ = catalog.Discover(appconfig.ThemesDir())
		if !slices.Contains(catalog.Names(), value) {
			return nil, fmt.Errorf("invalid theme: %s\nValid options: %s",
				value, strings.Join(catalog.Names(), ", "))
		}
		return value, nil
	case kindLevel:
		if !slices.Contains(appconfig.ValidLogLevels(), value) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(appconfig.ValidLogLevels(), ", "))
		}
		return value, nil
	case kindBool:
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("invalid value for %s: expected a non-negative number", key)
		}
		return f, nil
	case kindIntList:
		var out []int
		for _, part := range splitList(value) {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid value for %s: %q is not an integer", key, part)
			}
			out = append(out, n)
		}
		return out, nil
	case kindStringList:
		return splitList(value), nil
	}
	return nil, fmt.Errorf("unhandled key kind for %s", key)
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]

	typedValue, err := parseValue(key, args[1])
	if err != nil {
		return err
	}

	previous := viper.Get(key)
	viper.Set(key, typedValue)
	// Cross-field rules (page_size in page_sizes) are checked on the result.
	if _, err := appconfig.Load(); err != nil {
		viper.Set(key, previous)
		return fmt.Errorf("rejected %s = %v: %w", key, typedValue, err)
	}

	configFile, err := writeConfig()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configFile)
	return nil
}

// writeConfig saves viper's settings to the config file in use, or the
// default location.
func writeConfig() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = appconfig.ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return configFile, nil
}

// defaultConfigContent is written by 'config init'.
const defaultConfigContent = `# procdash configuration

# Purchase-request API
api:
  # API root; requests go to {base_url}/purchase-requests
  base_url: http://localhost:8080/api
  # Per-request timeout in milliseconds
  timeout_ms: 10000
  # Client-side pacing; 0 disables it
  requests_per_second: 10
  burst: 5

# Login session
auth:
  # Cookie the API expects the token in
  cookie_name: token
  # Where the session is stored (empty: ~/.local/state/procdash/session.yaml)
  session_file: ""

# Dashboard
tui:
  # Quiet period after the last keystroke before filters are applied
  debounce_ms: 500
  # Rows between a dropdown trigger and its panel
  dropdown_offset: 1
  # Rows per page at startup; must be one of page_sizes
  page_size: 20
  page_sizes: [10, 20, 50, 100]
  # Column id globs hidden at startup, e.g. ["created-*", "guid"]
  hidden_columns: []
  # How many times focus is re-requested after the table re-renders
  restore_attempts: 5
  # Color theme: default, nord, dracula, gruvbox, solarized-light or a custom theme
  theme: default

# Debug log, written to ~/.local/state/procdash/procdash.log
logging:
  enabled: true
  # debug, info, warn or error
  level: info
  max_size_mb: 10
  max_backups: 3
  compress: false
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'procdash config set' to modify values", configFile)
	}

	if err := os.MkdirAll(appconfig.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit this file to customize procdash.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := appconfig.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", configFile)
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: PROCDASH_* (e.g., PROCDASH_API_BASE_URL)")
	fmt.Fprintf(out, "Session and logs: %s\n", appconfig.StateDir())
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	// Check if config file exists, if not create it
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file doesn't exist, creating with defaults...\n")
		if err := runConfigInit(cmd, args); err != nil {
			return err
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "nano", "vi"} {
			if _, err := execLookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set $EDITOR environment variable")
	}

	editorCmd := execCommand(editor, configFile)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config file saved: %s\n", configFile)
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	defaults := defaultValues()

	if len(args) == 0 {
		for key, value := range defaults {
			viper.Set(key, value)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Reset all configuration to defaults.")
	} else {
		key := args[0]
		value, ok := defaults[key]
		if !ok {
			return fmt.Errorf("unknown configuration key: %s\nRun 'procdash config set --help' to see valid keys", key)
		}
		viper.Set(key, value)
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %s to default: %v\n", key, value)
	}

	configFile, err := writeConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configFile)
	return nil
}
