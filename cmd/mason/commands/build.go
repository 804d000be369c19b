package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [targets...]",
		Short: "Build the named targets, or the default set",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Build(cmd.Context(), c.options(cmd, args))
		},
	}
}
