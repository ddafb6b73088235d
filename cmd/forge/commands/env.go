package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (c *CLI) newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Print the resolved development environment without entering it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.app.Env(cmd.Context(), os.Environ())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), env.String())
			return nil
		},
	}
}
