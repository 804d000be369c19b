// Package commands implements the CLI commands for the mason build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/mason/internal/app"
	"go.trai.ch/mason/internal/build"
	"go.trai.ch/mason/internal/core/domain"
)

// CLI represents the command line interface for mason.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.Options) error
	Clean(ctx context.Context, opts app.Options) error
	Export(ctx context.Context, opts app.Options) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "mason",
		Short:         "A modular build orchestrator",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	layout := domain.LayoutFromEnv()
	rootCmd.PersistentFlags().StringP("file", "f", domain.ManifestFileName, "Path to the project manifest")
	rootCmd.PersistentFlags().String("build-root", layout.Root, "Directory that receives build outputs and engine state")
	rootCmd.PersistentFlags().String("variant", layout.Variant, "Build variant, kept isolated under the build root")
	rootCmd.PersistentFlags().String("backend", "local", "Backend that executes the build")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Replay command output even for successful commands")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newExportCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// options collects the persistent flags shared by every subcommand.
func (c *CLI) options(cmd *cobra.Command, targets []string) app.Options {
	manifest, _ := cmd.Flags().GetString("file")
	root, _ := cmd.Flags().GetString("build-root")
	variant, _ := cmd.Flags().GetString("variant")
	backend, _ := cmd.Flags().GetString("backend")
	verbose, _ := cmd.Flags().GetBool("verbose")

	return app.Options{
		Manifest: manifest,
		Layout:   domain.Layout{Root: root, Variant: variant},
		Backend:  backend,
		Targets:  targets,
		Verbose:  verbose,
	}
}

