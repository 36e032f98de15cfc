package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyeah/diesel/internal/ui"
	"github.com/moyeah/diesel/internal/version"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	var (
		short  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display version information for the diesel CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			switch {
			case short:
				fmt.Fprintln(ui.Out, info.String())
				return nil
			case output == "yaml":
				return ui.PrintYAML(info)
			case output == "table" || output == "":
				ui.PrintKeyValues(info.Pairs())
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want table or yaml)", output)
			}
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print a single line")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or yaml")

	return cmd
}
