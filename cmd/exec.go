package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/devconsole/internal/display"
)

// newExecCmd processes each argument as one console line.
func (app *App) newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <line> [line...]",
		Short: "Run console lines and print the resulting transcript",
		Example: `  devconsole exec help
  devconsole exec "sv_gravity 400" "sv_gravity"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := NewSession(app.cfg, app.logger)
			if err != nil {
				display.ShowError(err.Error())
				return err
			}

			var transcript string
			for _, line := range args {
				transcript = session.Console.ProcessInput(line)
			}
			fmt.Fprint(cmd.OutOrStdout(), transcript)
			return nil
		},
	}
}
