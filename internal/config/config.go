package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the complete procdash configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Auth    AuthConfig    `mapstructure:"auth"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig controls how the purchase-request API is reached
type APIConfig struct {
	// BaseURL is the API root, e.g. "https://procurement.example.com/api"
	BaseURL string `mapstructure:"base_url"`
	// TimeoutMs bounds every HTTP request
	TimeoutMs int `mapstructure:"timeout_ms"`
	// RequestsPerSecond paces outgoing requests. 0 disables pacing.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	// Burst is the number of requests allowed above the steady rate
	Burst int `mapstructure:"burst"`
}

// AuthConfig controls the login session
type AuthConfig struct {
	// CookieName is the cookie the API expects the session token in
	CookieName string `mapstructure:"cookie_name"`
	// SessionFile overrides where the session is stored.
	// Empty means {state dir}/session.yaml.
	SessionFile string `mapstructure:"session_file"`
}

// TUIConfig controls the dashboard
type TUIConfig struct {
	// DebounceMs is the quiet period before typed filters are committed
	DebounceMs int `mapstructure:"debounce_ms"`
	// DropdownOffset is the number of rows between a trigger and its panel
	DropdownOffset int `mapstructure:"dropdown_offset"`
	// PageSize is the initial number of rows per page; must be one of PageSizes
	PageSize int `mapstructure:"page_size"`
	// PageSizes are the choices offered by the page-size dropdown
	PageSizes []int `mapstructure:"page_sizes"`
	// HiddenColumns are glob patterns over filter field ids hidden at startup
	HiddenColumns []string `mapstructure:"hidden_columns"`
	// RestoreAttempts is how many times focus restoration re-queries for an
	// input that has not been rebuilt yet
	RestoreAttempts int `mapstructure:"restore_attempts"`
	// Theme names a built-in palette or a theme file in ThemesDir
	Theme string `mapstructure:"theme"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is active (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level sets the minimum log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:8080/api",
			TimeoutMs:         10000,
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Auth: AuthConfig{
			CookieName: "token",
		},
		TUI: TUIConfig{
			DebounceMs:      500,
			DropdownOffset:  1,
			PageSize:        20,
			PageSizes:       []int{10, 20, 50, 100},
			HiddenColumns:   []string{},
			RestoreAttempts: 5,
			Theme:           "default",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Timeout returns the API timeout as a time.Duration
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Debounce returns the filter quiet period as a time.Duration
func (c *TUIConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// SetDefaults registers default values with viper
func SetDefaults() {
	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout_ms", d.API.TimeoutMs)
	v.SetDefault("api.requests_per_second", d.API.RequestsPerSecond)
	v.SetDefault("api.burst", d.API.Burst)

	v.SetDefault("auth.cookie_name", d.Auth.CookieName)
	v.SetDefault("auth.session_file", d.Auth.SessionFile)

	v.SetDefault("tui.debounce_ms", d.TUI.DebounceMs)
	v.SetDefault("tui.dropdown_offset", d.TUI.DropdownOffset)
	v.SetDefault("tui.page_size", d.TUI.PageSize)
	v.SetDefault("tui.page_sizes", d.TUI.PageSizes)
	v.SetDefault("tui.hidden_columns", d.TUI.HiddenColumns)
	v.SetDefault("tui.restore_attempts", d.TUI.RestoreAttempts)
	v.SetDefault("tui.theme", d.TUI.Theme)

	v.SetDefault("logging.enabled", d.Logging.Enabled)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.compress", d.Logging.Compress)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	return decode(viper.GetViper())
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when the
// loaded one does not validate.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Watch re-reads the config file whenever it changes on disk and hands the
// new configuration to onChange. Invalid edits are reported to onError and
// leave the running configuration alone. Watch has no effect when no config
// file was read.
func Watch(onChange func(*Config), onError func(error)) {
	watch(viper.GetViper(), onChange, onError)
}

func watch(v *viper.Viper, onChange func(*Config), onError func(error)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "procdash")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".procdash"
	}
	return filepath.Join(home, ".config", "procdash")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ThemesDir returns the directory scanned for custom theme files
func ThemesDir() string {
	return filepath.Join(ConfigDir(), "themes")
}

// StateDir returns the directory holding the session file and logs
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "procdash")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".procdash"
	}
	return filepath.Join(home, ".local", "state", "procdash")
}

// SessionPath resolves auth.session_file, defaulting into StateDir
func (c *AuthConfig) SessionPath() string {
	if c.SessionFile != "" {
		return c.SessionFile
	}
	return filepath.Join(StateDir(), "session.yaml")
}
