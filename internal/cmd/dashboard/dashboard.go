// Package dashboard provides the command that opens the interactive
// purchase-request dashboard.
package dashboard

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/procdash/internal/cmd/cmdutil"
	"github.com/Iron-Ham/procdash/internal/event"
	"github.com/Iron-Ham/procdash/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the purchase-request dashboard",
	Long: `Open the interactive purchase-request dashboard.

Requires a stored session; run 'procdash login' first. Edits to the config
file (debounce, dropdown offset, theme-independent TUI settings) are
applied while the dashboard runs.`,
	Args: cobra.NoArgs,
	RunE: Run,
}

var noWatch bool

func init() {
	dashboardCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the config file while running")
}

// RegisterDashboardCmd registers the dashboard command with the given parent command.
func RegisterDashboardCmd(parent *cobra.Command) {
	parent.AddCommand(dashboardCmd)
}

// Register adds the dashboard command to the given parent command.
func Register(parent *cobra.Command) {
	RegisterDashboardCmd(parent)
}

// Run guards on the stored session, then runs the dashboard until the user
// quits.
func Run(cmd *cobra.Command, args []string) error {
	env, err := cmdutil.Authenticated(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer env.Close()

	logger := env.Logger.WithComponent("dashboard")
	logger.Info("dashboard starting", "user", env.Session.Username, "base_url", env.Config.API.BaseURL)
	env.Bus.Publish(event.NewSessionStartedEvent(env.Session.Username, env.Session.ExpiresAt))

	app := tui.New(tui.Options{
		Config:  env.Config,
		Client:  env.Client,
		Session: env.Session,
		Bus:     env.Bus,
		Logger:  env.Logger,
		Styles:  cmdutil.Styles(env.Config, env.Logger),
	}, !noWatch)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("dashboard stopped")
	return nil
}
