package session

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/procdash/internal/cmd/cmdutil"
	"github.com/Iron-Ham/procdash/internal/errors"
	"github.com/Iron-Ham/procdash/internal/event"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

// RegisterLogoutCmd registers the logout command with the given parent command.
func RegisterLogoutCmd(parent *cobra.Command) {
	parent.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}
	logger := cmdutil.CreateLogger(cfg, cmd.ErrOrStderr())
	defer func() { _ = logger.Close() }()

	store := cmdutil.SessionStore(cfg)
	sess, err := store.Load()
	if errors.Is(err, errors.ErrNoSession) {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return nil
	}
	// An unreadable session file is removed all the same.

	if err := store.Clear(); err != nil {
		return err
	}
	cmdutil.NewBus(logger).Publish(event.NewSessionEndedEvent(sess.Username, "logout"))

	if sess.Username != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Logged out %s.\n", sess.Username)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	}
	return nil
}
