package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/quocvuong92/devconsole/internal/config"
	"github.com/quocvuong92/devconsole/internal/display"
	"github.com/quocvuong92/devconsole/internal/logging"
)

// App holds the application state
type App struct {
	cfg    *config.Config
	logger *logging.Logger
}

// NewApp creates a new App instance with default configuration
func NewApp() *App {
	return &App{
		cfg: config.NewConfig(),
	}
}

// Execute runs the root command
func Execute() {
	app := NewApp()
	if err := app.newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (app *App) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "devconsole",
		Short: "An interactive command and cvar console",
		Long: `devconsole is a developer console: type a command to run it, type a
cvar name to read it, or a cvar name followed by a value to set it.

Cvars are declared in config files and can be archived so their values
survive restarts.

Examples:
  devconsole                             # Interactive mode
  devconsole exec "sv_gravity 400" list  # Run lines and print the transcript
  echo "help" | devconsole               # Batch mode from stdin
  devconsole cvars -r                    # Show all cvars as a table`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&app.cfg.Verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&app.cfg.Render, "render", "r", false, "Render listings as markdown")
	flags.StringVar(&app.cfg.LogFormat, "log-format", "", "Log format: text or json")
	flags.StringVarP(&app.cfg.CvarFile, "cvars", "c", "", "Extra cvar definitions file (YAML or TOML)")
	flags.StringVar(&app.cfg.Marker, "marker", "", "Prefix for echoed input lines")
	flags.StringVar(&app.cfg.Prompt, "prompt", "", "Interactive prompt")

	rootCmd.AddCommand(app.newExecCmd())
	rootCmd.AddCommand(app.newCvarsCmd())
	rootCmd.AddCommand(newInitConfigCmd())

	return rootCmd
}

// setup validates config and builds the logger shared by every subcommand.
func (app *App) setup() error {
	if err := app.cfg.Validate(); err != nil {
		display.ShowError(err.Error())
		return err
	}
	app.logger = app.cfg.NewLogger()

	if app.cfg.Render {
		if err := display.InitRenderer(); err != nil {
			app.logger.Warn("Failed to initialize renderer", logging.Fields{"error": err.Error()})
		}
	}
	return nil
}

func (app *App) run(cmd *cobra.Command) error {
	fd := os.Stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return app.runInteractive()
	}
	return app.runBatch(cmd.InOrStdin(), cmd.OutOrStdout())
}
