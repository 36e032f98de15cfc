package commands

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/moyeah/diesel/internal/config"
	"github.com/moyeah/diesel/internal/service"
	"github.com/moyeah/diesel/internal/typeexpr"
	"github.com/moyeah/diesel/internal/ui"
	"github.com/moyeah/diesel/internal/watch"
	"github.com/moyeah/diesel/pkg/query"
)

// Output formats of the query command.
const (
	OutputTable = "table"
	OutputYAML  = "yaml"
	OutputPlain = "plain"
)

type queryOptions struct {
	typeExpr string
	output   string
	file     string
	watch    bool
	args     []string
}

// NewQueryCommand creates the query command.
func NewQueryCommand(app *App) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query [sql]",
		Short: "Run a raw SQL query and decode its first column",
		Long: `Run raw SQL text and decode the first column of every row as --type.

The SQL comes from the argument, from --file, or from an interactive prompt
when neither is given. With --watch the file is re-run on every change.`,
		Example: `  diesel query "SELECT 42" --type integer
  diesel query "SELECT name FROM users WHERE id = ?" --arg 7 --type text
  diesel query --file report.sql --type "nullable<bigint>" --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), app, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.typeExpr, "type", "t", "text", `Wire type of the first column, e.g. integer or "nullable<bigint>"`)
	cmd.Flags().StringVarP(&opts.output, "output", "o", OutputTable, "Output format: table, yaml or plain")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the SQL from a file")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run the query when --file changes")
	cmd.Flags().StringArrayVar(&opts.args, "arg", nil, "Positional argument bound to the query (repeatable)")

	return cmd
}

func runQuery(ctx context.Context, app *App, opts *queryOptions, args []string) error {
	t, err := typeexpr.Parse(opts.typeExpr)
	if err != nil {
		return err
	}
	switch opts.output {
	case OutputTable, OutputYAML, OutputPlain:
	default:
		return fmt.Errorf("unknown output format %q (want table, yaml or plain)", opts.output)
	}

	if opts.watch && opts.file == "" {
		return errors.New("--watch requires --file")
	}
	if opts.file != "" && len(args) > 0 {
		return errors.New("pass the SQL either as an argument or with --file, not both")
	}

	c, err := app.Container(ctx)
	if err != nil {
		return err
	}
	svc := c.QueryService()
	bound := bindArgs(opts.args)

	if opts.file == "" {
		text := ""
		if len(args) == 1 {
			text = args[0]
		} else if text, err = promptSQL(); err != nil {
			return err
		}
		return executeQuery(ctx, svc, t, text, bound, opts.output)
	}

	run := func(ctx context.Context) error {
		data, err := afero.ReadFile(config.AppFs, opts.file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", opts.file, err)
		}
		return executeQuery(ctx, svc, t, strings.TrimSpace(string(data)), bound, opts.output)
	}
	if !opts.watch {
		return run(ctx)
	}

	w, err := watch.NewWatcher(opts.file, watch.DefaultDebounce, keepWatching(run))
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil {
		return err
	}
	ui.PrintInfo("watching %s (Ctrl+C to stop)", opts.file)
	w.Wait()
	return nil
}

// keepWatching reports a failed run as a warning so the watch goes on.
func keepWatching(run watch.Callback) watch.Callback {
	return func(ctx context.Context) error {
		if err := run(ctx); err != nil {
			ui.PrintWarning("%v (waiting for the next change)", err)
		}
		return nil
	}
}

func promptSQL() (string, error) {
	var text string
	prompt := &survey.Multiline{Message: "SQL:"}
	if err := survey.AskOne(prompt, &text, survey.WithValidator(survey.Required)); err != nil {
		return "", fmt.Errorf("no SQL given: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func executeQuery(ctx context.Context, svc *service.QueryService, t typeexpr.Type, text string, args []any, output string) error {
	loader := t.Loader()

	stop := func() {}
	if output == OutputTable {
		stop = ui.Spinner("running query")
	}
	values, err := svc.RunFunc(ctx, text, t.SQLName(), func(ctx context.Context, conn query.Connection) ([]any, error) {
		return loader(ctx, conn, text, args...)
	})
	stop()
	if err != nil {
		return err
	}

	return render(output, t, text, values)
}

func render(output string, t typeexpr.Type, text string, values []any) error {
	switch output {
	case OutputYAML:
		return ui.PrintYAML(yamlResult{
			Query: text,
			Type:  t.SQLName(),
			Rows:  yamlValues(values),
		})
	case OutputPlain:
		lines := make([]string, len(values))
		for i, v := range values {
			lines[i] = formatValue(v)
		}
		if len(lines) > 0 {
			ui.PrintLines(lines)
		}
		return nil
	default:
		rows := make([][]string, len(values))
		for i, v := range values {
			rows[i] = []string{strconv.Itoa(i), formatValue(v)}
		}
		if err := ui.PrintTable([]string{"#", t.String()}, rows); err != nil {
			return err
		}
		ui.PrintSuccess("%d row(s)", len(values))
		return nil
	}
}

type yamlResult struct {
	Query string `yaml:"query"`
	Type  string `yaml:"type"`
	Rows  []any  `yaml:"rows"`
}

func yamlValues(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case []byte:
			out[i] = "0x" + hex.EncodeToString(v)
		case time.Time:
			out[i] = v.Format(time.RFC3339Nano)
		default:
			out[i] = v
		}
	}
	return out
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return "0x" + hex.EncodeToString(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

// bindArgs passes integers as int64 so drivers bind them as numbers. Only
// the canonical spelling counts: "007" and "+7" stay text.
func bindArgs(raw []string) []any {
	out := make([]any, len(raw))
	for i, s := range raw {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
			out[i] = n
		} else {
			out[i] = s
		}
	}
	return out
}
