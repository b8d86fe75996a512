package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/procdash/internal/api"
	"github.com/Iron-Ham/procdash/internal/cmd/cmdutil"
	"github.com/Iron-Ham/procdash/internal/errors"
	"github.com/Iron-Ham/procdash/internal/event"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the procurement API",
	Long: `Log in with a username and password and store the session token.

The password is read from --password, or prompted for without echo when
stdin is a terminal, or read from the first line of stdin otherwise.

Examples:
  procdash login --username ana
  echo "$PASSWORD" | procdash login --username ana`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var (
	loginUsername string
	loginPassword string
)

// readPassword reads a password without echo. Replaced in tests.
var readPassword = func(fd int) ([]byte, error) {
	return term.ReadPassword(fd)
}

// isTerminal reports whether fd is a terminal. Replaced in tests.
var isTerminal = term.IsTerminal

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (required)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted for when omitted)")
	_ = loginCmd.MarkFlagRequired("username")
}

// RegisterLoginCmd registers the login command with the given parent command.
func RegisterLoginCmd(parent *cobra.Command) {
	parent.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	username := strings.TrimSpace(loginUsername)
	if username == "" {
		return errors.NewValidationError("username must not be empty").WithField("username")
	}

	password := loginPassword
	if password == "" {
		var err error
		password, err = promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}

	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}
	logger := cmdutil.CreateLogger(cfg, cmd.ErrOrStderr())
	defer func() { _ = logger.Close() }()

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout()),
		api.WithCookieName(cfg.Auth.CookieName),
		api.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess, err := client.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, errors.ErrUnauthorized) {
			return errors.NewSessionError("login rejected, check username and password", err).WithUsername(username)
		}
		return err
	}

	store := cmdutil.SessionStore(cfg)
	if err := store.Save(sess); err != nil {
		return err
	}
	cmdutil.NewBus(logger).Publish(event.NewSessionStartedEvent(sess.Username, sess.ExpiresAt))

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s until %s\n", sess.Username, sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(cmd.OutOrStdout(), "Session saved to %s\n", store.Path())
	return nil
}

// promptPassword reads the password from a terminal without echo, or the
// first line of a piped stdin.
func promptPassword(in io.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Password: ")
		b, err := readPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.NewValidationError("password must not be empty").WithField("password")
	}
	return password, nil
}
