package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/devconsole/internal/display"
)

// newCvarsCmd lists every cvar with its kind, flags and value.
func (app *App) newCvarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cvars",
		Short: "List all cvars with kind, flags and current value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := NewSession(app.cfg, app.logger)
			if err != nil {
				display.ShowError(err.Error())
				return err
			}

			infos := session.Cvars.All()
			if app.cfg.Render {
				display.ShowRendered(cvarsMarkdown(infos))
				return nil
			}
			for _, info := range infos {
				fmt.Fprint(cmd.OutOrStdout(), formatInfo(info))
			}
			return nil
		},
	}
}
