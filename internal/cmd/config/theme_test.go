package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appconfig "github.com/Iron-Ham/procdash/internal/config"
	"github.com/Iron-Ham/procdash/internal/errors"
)

const testTheme = `name: "Test Theme"
author: "tester"
version: "1"
colors:
  primary: "#A78BFA"
  secondary: "#10B981"
  warning: "#F59E0B"
  error: "#F87171"
  muted: "#9CA3AF"
  surface: "#1F2937"
  text: "#F9FAFB"
  border: "#6B7280"
`

// setupConfigHome points the config directory at a temp dir and resets
// viper to defaults.
func setupConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	viper.Reset()
	appconfig.SetDefaults()
	t.Cleanup(viper.Reset)
	return filepath.Join(dir, "procdash")
}

// run invokes a command function with captured output.
func run(fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	c := &cobra.Command{}
	buf := new(bytes.Buffer)
	c.SetOut(buf)
	c.SetErr(buf)
	err := fn(c, args)
	return buf.String(), err
}

func writeTheme(t *testing.T, name, content string) {
	t.Helper()
	dir := appconfig.ThemesDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test theme: %v", err)
	}
}

func TestRunThemeList(t *testing.T) {
	setupConfigHome(t)
	writeTheme(t, "testtheme.yaml", testTheme)
	writeTheme(t, "broken.yaml", "name: [")

	out, err := run(runThemeList)
	if err != nil {
		t.Fatalf("runThemeList() error = %v", err)
	}
	for _, want := range []string{"default", "nord", "testtheme (by tester)", "broken.yaml", appconfig.ThemesDir()} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestRunThemeExport(t *testing.T) {
	setupConfigHome(t)
	outputPath := filepath.Join(t.TempDir(), "exported.yaml")

	if _, err := run(runThemeExport, "default", outputPath); err != nil {
		t.Fatalf("runThemeExport() error = %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if !bytes.Contains(data, []byte("primary:")) {
		t.Error("Output file missing primary color")
	}
}

func TestRunThemeExport_Stdout(t *testing.T) {
	setupConfigHome(t)
	writeTheme(t, "testtheme.yaml", testTheme)

	out, err := run(runThemeExport, "testtheme")
	if err != nil {
		t.Fatalf("runThemeExport() error = %v", err)
	}
	if !strings.Contains(out, "Test Theme") || !strings.Contains(out, "#A78BFA") {
		t.Errorf("export = %q", out)
	}
}

func TestRunThemeExportInvalidTheme(t *testing.T) {
	setupConfigHome(t)
	writeTheme(t, "broken.yaml", "name: [")

	_, err := run(runThemeExport, "nonexistent")
	var nf *errors.NotFoundError
	if !errors.As(err, &nf) || nf.ResourceID != "nonexistent" {
		t.Errorf("error = %v, want theme not found", err)
	}
	if _, err := run(runThemeExport, "broken"); err == nil || !strings.Contains(err.Error(), "failed to load") {
		t.Errorf("error = %v, want load failure", err)
	}
}

func TestRunThemeInfo(t *testing.T) {
	setupConfigHome(t)
	writeTheme(t, "testtheme.yaml", testTheme)

	out, err := run(runThemeInfo, "nord")
	if err != nil {
		t.Fatalf("runThemeInfo() error = %v", err)
	}
	if !strings.Contains(out, "Type: Built-in") {
		t.Errorf("info = %q", out)
	}

	out, err = run(runThemeInfo, "testtheme")
	if err != nil {
		t.Fatalf("runThemeInfo() error = %v", err)
	}
	if !strings.Contains(out, "Type: Custom") || !strings.Contains(out, "Author: tester") {
		t.Errorf("info = %q", out)
	}
}

func TestRunThemeCreate(t *testing.T) {
	setupConfigHome(t)

	if _, err := run(runThemeCreate, "ocean"); err != nil {
		t.Fatalf("runThemeCreate() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(appconfig.ThemesDir(), "ocean.yaml")); err != nil {
		t.Fatalf("theme file not created: %v", err)
	}

	// The new theme is immediately usable.
	if _, err := run(runConfigSet, "tui.theme", "ocean"); err != nil {
		t.Errorf("setting the created theme failed: %v", err)
	}

	tests := []struct {
		name string
		arg  string
	}{
		{"exists", "ocean"},
		{"builtin", "dracula"},
		{"invalid chars", "a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(runThemeCreate, tt.arg); err == nil {
				t.Errorf("runThemeCreate(%q) should fail", tt.arg)
			}
		})
	}
}

func TestRunThemePath(t *testing.T) {
	setupConfigHome(t)

	out, err := run(runThemePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, appconfig.ThemesDir()) || !strings.Contains(out, "does not exist") {
		t.Errorf("output = %q", out)
	}
}
