package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the build graph in the backend's native format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Export(cmd.Context(), c.options(cmd, nil))
		},
	}
}
