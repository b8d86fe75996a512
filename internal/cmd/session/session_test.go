package session

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/procdash/internal/auth"
	"github.com/Iron-Ham/procdash/internal/config"
	"github.com/Iron-Ham/procdash/internal/errors"
	"github.com/Iron-Ham/procdash/internal/logging"
	"github.com/Iron-Ham/procdash/internal/testutil"
)

func run(fn func(*cobra.Command, []string) error, stdin string) (string, error) {
	c := &cobra.Command{}
	buf := new(bytes.Buffer)
	c.SetOut(buf)
	c.SetErr(buf)
	c.SetIn(strings.NewReader(stdin))
	err := fn(c, nil)
	return buf.String(), err
}

func login(username, password, stdin string) (string, error) {
	loginUsername, loginPassword = username, password
	return run(runLogin, stdin)
}

func TestLogin(t *testing.T) {
	srv := testutil.NewAPIServer(t, nil)
	testutil.SetupCLI(t, srv.BaseURL())

	out, err := login("ana", "secret", "")
	if err != nil {
		t.Fatalf("runLogin() error = %v", err)
	}
	if !strings.Contains(out, "Logged in as ana") {
		t.Errorf("output = %q", out)
	}

	sess, err := auth.NewStore(config.Get().Auth.SessionPath()).Load()
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if sess.Token != srv.Token || sess.Username != "ana" || !sess.ExpiresAt.Equal(srv.ExpiresAt) {
		t.Errorf("stored session = %+v", sess)
	}
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	srv := testutil.NewAPIServer(t, nil)
	testutil.SetupCLI(t, srv.BaseURL())

	if _, err := login("ana", "", "secret\n"); err != nil {
		t.Fatalf("runLogin() error = %v", err)
	}
	if _, err := login("ana", "", ""); err == nil {
		t.Error("empty stdin should not log in")
	}
}

func TestLogin_Rejected(t *testing.T) {
	srv := testutil.NewAPIServer(t, nil)
	testutil.SetupCLI(t, srv.BaseURL())

	_, err := login("ana", "wrong", "")
	if !errors.Is(err, errors.ErrUnauthorized) {
		t.Fatalf("error = %v, want unauthorized", err)
	}
	var se *errors.SessionError
	if !errors.As(err, &se) || se.Username != "ana" {
		t.Errorf("error = %#v, want a session error for ana", err)
	}
	if _, err := os.Stat(config.Get().Auth.SessionPath()); !os.IsNotExist(err) {
		t.Error("rejected login stored a session")
	}

	if _, err := login("  ", "secret", ""); err == nil {
		t.Error("blank username should fail")
	}
}

func TestLogin_LogsSessionStarted(t *testing.T) {
	srv := testutil.NewAPIServer(t, nil)
	stateDir := testutil.SetupCLI(t, srv.BaseURL())

	if _, err := login("ana", "secret", ""); err != nil {
		t.Fatal(err)
	}
	entries, err := logging.AggregateLogs(stateDir)
	if err != nil {
		t.Fatalf("no log written: %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Message == "logged in" && e.Component == "api" {
			found = true
		}
	}
	if !found {
		t.Errorf("login not logged: %+v", entries)
	}
}

func TestLogout(t *testing.T) {
	srv := testutil.NewAPIServer(t, nil)
	testutil.SetupCLI(t, srv.BaseURL())

	if _, err := login("ana", "secret", ""); err != nil {
		t.Fatal(err)
	}

	out, err := run(runLogout, "")
	if err != nil {
		t.Fatalf("runLogout() error = %v", err)
	}
	if !strings.Contains(out, "Logged out ana") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(config.Get().Auth.SessionPath()); !os.IsNotExist(err) {
		t.Error("session file still present")
	}

	out, err = run(runLogout, "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Not logged in") {
		t.Errorf("second logout = %q", out)
	}
}
