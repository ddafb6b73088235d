package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [targets...]",
		Short: "Build the backend binary and optionally the ui bundle",
		Long: "Build resolves the pinned toolchain and native dependencies, then " +
			"compiles the named targets hermetically. Without arguments the " +
			"backend is built.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputs, err := c.app.Build(cmd.Context(), args)

			// Finished targets are reported even when a later one failed.
			for _, out := range outputs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", out.Target, out.Path, out.OutputDigest)
			}
			return err
		},
	}
}
