package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyeah/diesel/internal/adapters/database"
	"github.com/moyeah/diesel/internal/ui"
	"github.com/moyeah/diesel/pkg/sqlite"
)

// NewSQLiteVersionCommand creates the sqlite-version command.
func NewSQLiteVersionCommand(app *App) *cobra.Command {
	var semver bool

	cmd := &cobra.Command{
		Use:   "sqlite-version",
		Short: "Print the version of the SQLite library behind the database",
		Long: `Query the configured SQLite database for its library version with
SELECT sqlite_version_number() and SELECT sqlite_version().`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c, err := app.Container(ctx)
			if err != nil {
				return err
			}
			if d := c.Pool().Provider().Dialect(); d != database.SQLite {
				return fmt.Errorf("sqlite-version needs a sqlite database, configured dialect is %s", d)
			}

			info, err := c.QueryService().SQLiteVersion(ctx)
			if err != nil {
				return err
			}

			if semver {
				fmt.Fprintln(ui.Out, info.Version.String())
				return nil
			}

			major, minor, patch := sqlite.SplitVersionNumber(info.Number)
			ui.PrintKeyValues([][2]string{
				{"Version", info.Text},
				{"Version Number", fmt.Sprintf("%d", info.Number)},
				{"Components", fmt.Sprintf("%d.%d.%d", major, minor, patch)},
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&semver, "semver", false, "Print only the parsed semantic version")

	return cmd
}
