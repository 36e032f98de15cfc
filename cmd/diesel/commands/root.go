// Package commands implements CLI commands.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyeah/diesel/internal/config"
	"github.com/moyeah/diesel/internal/container"
	"github.com/moyeah/diesel/internal/logging"
	"github.com/moyeah/diesel/internal/ui"
	"github.com/moyeah/diesel/internal/version"
)

// App carries state shared by commands. The container is built on first
// use so commands that never touch the database do not need one.
type App struct {
	// ConfigFile is an explicit config file path.
	ConfigFile string
	// Verbose enables debug logging to stderr.
	Verbose bool
	// NoColor disables styled output.
	NoColor bool
	// Config, when set, is used instead of loading configuration.
	Config *config.Config

	container *container.Container
}

// LoadConfig returns Config, loading it on first use.
func (a *App) LoadConfig() (*config.Config, error) {
	if a.Config != nil {
		return a.Config, nil
	}
	cfg, err := config.LoadConfig(a.ConfigFile)
	if err != nil {
		return nil, err
	}
	a.Config = cfg
	return cfg, nil
}

// Container loads configuration and builds the container once.
func (a *App) Container(ctx context.Context) (*container.Container, error) {
	if a.container != nil {
		return a.container, nil
	}

	cfg, err := a.LoadConfig()
	if err != nil {
		return nil, err
	}
	if a.Verbose {
		// --verbose already installed a debug logger.
		cfg.Log.Enabled = false
	}
	for _, w := range cfg.Warnings() {
		ui.PrintWarning("%s", w)
	}

	c, err := container.NewContainer(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	a.container = c
	return c, nil
}

// Close releases the container if it was built.
func (a *App) Close(ctx context.Context) error {
	if a.container == nil {
		return nil
	}
	err := a.container.Close(ctx)
	a.container = nil
	return err
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "diesel",
		Short:         "Run typed raw SQL queries",
		Long:          "diesel runs raw SQL text against a database and decodes the first column of every row into a declared wire type.",
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if app.NoColor {
				ui.DisableColor()
			}
			if app.Verbose {
				logging.Init(true)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.ConfigFile, "config", "", "Path to config file (default .diesel.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&app.NoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewSQLiteVersionCommand(app))
	rootCmd.AddCommand(NewQueryCommand(app))
	rootCmd.AddCommand(NewTypesCommand())
	rootCmd.AddCommand(NewConfigCommand(app))

	return rootCmd
}
