package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [targets...]",
		Short: "Remove the outputs of the named targets, or of everything",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, args)
			opts.Recursive, _ = cmd.Flags().GetBool("recursive")
			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("recursive", "r", false, "Also clean everything the selected sets depend on")

	return cmd
}
