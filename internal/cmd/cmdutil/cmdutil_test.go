package cmdutil

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Iron-Ham/procdash/internal/auth"
	"github.com/Iron-Ham/procdash/internal/config"
	"github.com/Iron-Ham/procdash/internal/errors"
	"github.com/Iron-Ham/procdash/internal/logging"
	"github.com/Iron-Ham/procdash/internal/testutil"
	"github.com/Iron-Ham/procdash/internal/tui/styles"
)

func TestCreateLogger_Disabled(t *testing.T) {
	testutil.SetupCLI(t, "")
	cfg := config.Default()
	cfg.Logging.Enabled = false

	var stderr bytes.Buffer
	logger := CreateLogger(cfg, &stderr)
	logger.Info("dropped")
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected warning: %q", stderr.String())
	}
	if entries, _ := logging.AggregateLogs(config.StateDir()); len(entries) != 0 {
		t.Errorf("disabled logger wrote %d entries", len(entries))
	}
}

func TestCreateLogger_WritesStateDir(t *testing.T) {
	stateDir := testutil.SetupCLI(t, "")

	logger := CreateLogger(config.Default(), &bytes.Buffer{})
	logger.Info("hello")
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	entries, err := logging.AggregateLogs(stateDir)
	if err != nil || len(entries) != 1 || entries[0].Message != "hello" {
		t.Errorf("entries = %+v, err = %v", entries, err)
	}
}

func TestAuthenticated(t *testing.T) {
	srv := testutil.NewAPIServer(t, nil)
	testutil.SetupCLI(t, srv.BaseURL())

	if _, err := Authenticated(&bytes.Buffer{}); !errors.Is(err, errors.ErrNoSession) {
		t.Fatalf("error = %v, want no session", err)
	}

	sess := auth.NewSession("ana", srv.Token, srv.ExpiresAt, time.Now())
	if err := auth.NewStore(config.Get().Auth.SessionPath()).Save(sess); err != nil {
		t.Fatal(err)
	}
	env, err := Authenticated(&bytes.Buffer{})
	if err != nil {
		t.Fatalf("Authenticated() error = %v", err)
	}
	defer env.Close()
	if env.Session.Username != "ana" || env.Client == nil || env.Bus == nil {
		t.Errorf("env = %+v", env)
	}
}

func TestAuthenticated_Clock(t *testing.T) {
	srv := testutil.NewAPIServer(t, nil)
	testutil.SetupCLI(t, srv.BaseURL())
	sess := auth.NewSession("ana", srv.Token, srv.ExpiresAt, time.Now())
	if err := auth.NewStore(config.Get().Auth.SessionPath()).Save(sess); err != nil {
		t.Fatal(err)
	}

	Now = func() time.Time { return srv.ExpiresAt.Add(time.Minute) }
	t.Cleanup(func() { Now = time.Now })

	if _, err := Authenticated(&bytes.Buffer{}); !errors.Is(err, errors.ErrSessionExpired) {
		t.Errorf("error = %v, want expired", err)
	}
}

func TestAuthenticated_InvalidConfig(t *testing.T) {
	testutil.SetupCLI(t, "")
	viper.Set("api.base_url", "not a url")

	_, err := Authenticated(&bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("error = %v", err)
	}
}

func TestStyles(t *testing.T) {
	testutil.SetupCLI(t, "")
	var logs bytes.Buffer
	logger := logging.NewWriterLogger(&logs, logging.LevelDebug)

	cfg := config.Default()
	cfg.TUI.Theme = "nord"
	if got := Styles(cfg, logger); got.Palette.Primary != styles.NordPalette().Primary {
		t.Errorf("nord primary = %v", got.Palette.Primary)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %s", logs.String())
	}

	cfg.TUI.Theme = "neon"
	if got := Styles(cfg, logger); got.Palette.Primary != styles.DefaultPalette().Primary {
		t.Errorf("unknown theme primary = %v, want default", got.Palette.Primary)
	}
	if !strings.Contains(logs.String(), "unknown theme") {
		t.Errorf("fallback not logged: %s", logs.String())
	}
}

func TestTerminalWidth(t *testing.T) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		t.Skip("stdout is a terminal")
	}
	if got := TerminalWidth(77); got != 77 {
		t.Errorf("TerminalWidth() = %d, want fallback", got)
	}
}
