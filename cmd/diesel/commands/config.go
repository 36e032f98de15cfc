package commands

import (
	"github.com/spf13/cobra"

	"github.com/moyeah/diesel/internal/config"
	"github.com/moyeah/diesel/internal/ui"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the diesel configuration",
	}

	cmd.AddCommand(newConfigInitCommand(app))

	return cmd
}

func newConfigInitCommand(app *App) *cobra.Command {
	var provider, url string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current configuration to ~/.config/diesel",
		Long: `Write the configuration diesel would run with, after applying config
files, .env files, the environment and the flags below, to
~/.config/diesel/.diesel.yaml.`,
		Example: `  diesel config init --provider postgres --url "postgres://localhost/app?sslmode=disable"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			if provider != "" {
				cfg.Database.Provider = provider
			}
			if url != "" {
				cfg.Database.URL = url
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			path, err := config.SaveConfig(cfg)
			if err != nil {
				return err
			}

			ui.PrintHeader("diesel config", path)
			ui.PrintKeyValues([][2]string{
				{"Provider", cfg.Database.Provider},
				{"URL", cfg.Database.URL},
				{"Telemetry", cfg.Telemetry.Type},
			})
			for _, w := range cfg.Warnings() {
				ui.PrintWarning("%s", w)
			}
			ui.PrintSuccess("configuration written")
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Database provider (sqlite, postgres, mysql)")
	cmd.Flags().StringVar(&url, "url", "", "Database connection URL")

	return cmd
}
