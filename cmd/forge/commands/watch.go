package commands

import (
	fswatch "github.com/Lemventory/forge/internal/adapters/watcher"
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the backend whenever the source tree changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			window, err := cmd.Flags().GetDuration("debounce")
			if err != nil {
				return err
			}
			return c.app.Watch(cmd.Context(), window)
		},
	}
	cmd.Flags().Duration("debounce", fswatch.DefaultDebounceWindow,
		"Quiet window before a change burst triggers a rebuild")
	return cmd
}
