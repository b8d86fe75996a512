package requests

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/procdash/internal/cmd/cmdutil"
	"github.com/Iron-Ham/procdash/internal/event"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the total number of purchase requests",
	Long:  `Print the number of purchase requests on the server, ignoring all filters.`,
	Args:  cobra.NoArgs,
	RunE:  runCount,
}

// RegisterCountCmd registers the count command with the given parent command.
func RegisterCountCmd(parent *cobra.Command) {
	parent.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
	env, err := cmdutil.Authenticated(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer env.Close()

	total, err := env.Client.TotalCount(commandContext(cmd))
	if err != nil {
		env.Bus.Publish(event.NewCountFailedEvent(err))
		return err
	}
	env.Bus.Publish(event.NewCountLoadedEvent(total))

	fmt.Fprintln(cmd.OutOrStdout(), total)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
