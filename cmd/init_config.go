package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/devconsole/internal/config"
	"github.com/quocvuong92/devconsole/internal/display"
)

// newInitConfigCmd writes the commented default config file.
func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Create a default config file",
		Args:  cobra.NoArgs,
		// Skip the root setup: the point is to create a config, so a broken
		// or missing one must not stop us.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfigFile()
			if err != nil {
				display.ShowError(err.Error())
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", path)
			return nil
		},
	}
}
