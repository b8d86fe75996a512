// Package cmdutil holds the setup shared by the procdash commands: loading
// configuration, building the logger, and guarding API access behind a
// stored session.
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/Iron-Ham/procdash/internal/api"
	"github.com/Iron-Ham/procdash/internal/auth"
	"github.com/Iron-Ham/procdash/internal/config"
	"github.com/Iron-Ham/procdash/internal/event"
	"github.com/Iron-Ham/procdash/internal/logging"
	"github.com/Iron-Ham/procdash/internal/tui/styles"
)

// Now is the clock used for session checks. Tests replace it.
var Now = time.Now

// LoadConfig loads and validates the configuration viper has read.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// CreateLogger creates a logger if logging is enabled in config.
// Returns a NopLogger if logging is disabled or if creation fails.
func CreateLogger(cfg *config.Config, stderr io.Writer) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}

	rotation := logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	}
	logger, err := logging.NewLoggerWithRotation(config.StateDir(), cfg.Logging.Level, rotation)
	if err != nil {
		// A broken log file shouldn't keep the dashboard from starting
		fmt.Fprintf(stderr, "Warning: failed to create logger: %v\n", err)
		return logging.NopLogger()
	}
	return logger
}

// SessionStore returns the store at auth.session_file.
func SessionStore(cfg *config.Config) *auth.Store {
	return auth.NewStore(cfg.Auth.SessionPath())
}

// NewBus returns an event bus whose events are all written to logger.
func NewBus(logger *logging.Logger) *event.Bus {
	bus := event.NewBus().WithLogger(logger)
	events := logger.WithComponent("events")
	bus.SubscribeAll(func(e event.Event) {
		events.Debug("event", "type", e.EventType())
	})
	return bus
}

// Env is everything an authenticated command needs.
type Env struct {
	Config  *config.Config
	Logger  *logging.Logger
	Session auth.Session
	Client  *api.Client
	Bus     *event.Bus
}

// Close flushes the logger.
func (e *Env) Close() {
	_ = e.Logger.Close()
}

// Authenticated loads config, requires a usable stored session and builds
// an API client carrying it.
func Authenticated(stderr io.Writer) (*Env, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := CreateLogger(cfg, stderr)

	sess, err := auth.NewGuard(SessionStore(cfg), logger).Require(Now())
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	client, err := api.FromConfig(cfg, sess, logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	return &Env{
		Config:  cfg,
		Logger:  logger,
		Session: sess,
		Client:  client,
		Bus:     NewBus(logger),
	}, nil
}

// Styles resolves tui.theme against the built-in and custom themes. An
// unknown theme falls back to the default palette with a warning.
func Styles(cfg *config.Config, logger *logging.Logger) *styles.Styles {
	catalog := styles.NewCatalog()
	_, errs := catalog.Discover(config.ThemesDir())
	for _, err := range errs {
		logger.Warn("theme failed to load", "error", err.Error())
	}

	palette, ok := catalog.Palette(cfg.TUI.Theme)
	if !ok {
		logger.Warn("unknown theme, using default", "theme", cfg.TUI.Theme)
	}
	return styles.New(palette)
}

// TerminalWidth returns the width of stdout, or fallback when stdout is
// not a terminal.
func TerminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallback
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		return w
	}
	return fallback
}
