package commands

import (
	"os"

	"github.com/Lemventory/forge/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Enter a development shell with the resolved build environment",
		Long: "Shell composes the exact environment a build would use, layers the " +
			"development defaults and local .env overrides on top, prints it for " +
			"verification and starts an interactive shell inside it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Shell(cmd.Context(), app.ShellSession{
				Stdin:   cmd.InOrStdin(),
				Stdout:  cmd.OutOrStdout(),
				Stderr:  cmd.ErrOrStderr(),
				Ambient: os.Environ(),
			})
		},
	}
}
