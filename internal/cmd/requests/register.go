// Package requests provides non-interactive commands over the
// purchase-request API.
package requests

import "github.com/spf13/cobra"

// Register adds the count and list commands to the given parent command.
func Register(parent *cobra.Command) {
	RegisterCountCmd(parent)
	RegisterListCmd(parent)
}
