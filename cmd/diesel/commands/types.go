package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moyeah/diesel/internal/typeexpr"
	"github.com/moyeah/diesel/internal/ui"
)

// NewTypesCommand creates the types command.
func NewTypesCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the wire types accepted by --type",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := typesMarkdown()
			if raw {
				fmt.Fprint(ui.Out, doc)
				return nil
			}
			return ui.PrintMarkdown(doc)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source")

	return cmd
}

func typesMarkdown() string {
	var b strings.Builder
	b.WriteString("# Wire types\n\n")
	b.WriteString("| Type | Aliases | SQL type | Go type |\n")
	b.WriteString("|------|---------|----------|---------|\n")
	for _, t := range typeexpr.Types() {
		fmt.Fprintf(&b, "| `%s` | %s | %s | `%s` |\n", t.Name, aliasList(t.Aliases), t.SQLName, t.Native)
	}
	b.WriteString("\nWrap any type as `nullable<type>` or write `type?` to accept NULL;\n")
	b.WriteString("NULL cells are then printed as `NULL`.\n")
	return b.String()
}

func aliasList(aliases []string) string {
	if len(aliases) == 0 {
		return "-"
	}
	quoted := make([]string, len(aliases))
	for i, a := range aliases {
		quoted[i] = "`" + a + "`"
	}
	return strings.Join(quoted, ", ")
}
