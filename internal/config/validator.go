package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "tui.debounce_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.validateAPI()...)
	errors = append(errors, c.validateAuth()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)
	return errors
}

func (c *Config) validateAPI() []ValidationError {
	var errors []ValidationError

	u, err := url.Parse(c.API.BaseURL)
	switch {
	case c.API.BaseURL == "":
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Value:   c.API.BaseURL,
			Message: "must not be empty",
		})
	case err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "":
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Value:   c.API.BaseURL,
			Message: "must be an absolute http(s) URL",
		})
	}

	if c.API.TimeoutMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "api.timeout_ms",
			Value:   c.API.TimeoutMs,
			Message: "must be positive",
		})
	}

	if c.API.RequestsPerSecond < 0 {
		errors = append(errors, ValidationError{
			Field:   "api.requests_per_second",
			Value:   c.API.RequestsPerSecond,
			Message: "must be non-negative (0 disables pacing)",
		})
	}

	if c.API.RequestsPerSecond > 0 && c.API.Burst < 1 {
		errors = append(errors, ValidationError{
			Field:   "api.burst",
			Value:   c.API.Burst,
			Message: "must be at least 1 when pacing is enabled",
		})
	}

	return errors
}

func (c *Config) validateAuth() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Auth.CookieName) == "" {
		errors = append(errors, ValidationError{
			Field:   "auth.cookie_name",
			Value:   c.Auth.CookieName,
			Message: "must not be empty",
		})
	}

	return errors
}

func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.DebounceMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.debounce_ms",
			Value:   c.TUI.DebounceMs,
			Message: "must be non-negative",
		})
	}

	if c.TUI.DropdownOffset < 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.dropdown_offset",
			Value:   c.TUI.DropdownOffset,
			Message: "must be non-negative",
		})
	}

	if c.TUI.RestoreAttempts < 1 {
		errors = append(errors, ValidationError{
			Field:   "tui.restore_attempts",
			Value:   c.TUI.RestoreAttempts,
			Message: "must be at least 1",
		})
	}

	if len(c.TUI.PageSizes) == 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.page_sizes",
			Value:   c.TUI.PageSizes,
			Message: "must list at least one page size",
		})
	}
	for i, size := range c.TUI.PageSizes {
		if size <= 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("tui.page_sizes[%d]", i),
				Value:   size,
				Message: "must be positive",
			})
		}
	}

	if len(c.TUI.PageSizes) > 0 && !slices.Contains(c.TUI.PageSizes, c.TUI.PageSize) {
		errors = append(errors, ValidationError{
			Field:   "tui.page_size",
			Value:   c.TUI.PageSize,
			Message: fmt.Sprintf("must be one of tui.page_sizes %v", c.TUI.PageSizes),
		})
	}

	if strings.TrimSpace(c.TUI.Theme) == "" {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: "must not be empty",
		})
	}

	for i, pattern := range c.TUI.HiddenColumns {
		if _, err := glob.Compile(pattern); err != nil {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("tui.hidden_columns[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	const maxLogSizeMB = 1000
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
