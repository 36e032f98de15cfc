// Package main is the entry point for the diesel CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/moyeah/diesel/cmd/diesel/commands"
	"github.com/moyeah/diesel/internal/ui"
)

func main() {
	if err := run(); err != nil {
		ui.PrintError("%v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &commands.App{}
	err := commands.NewRootCommand(app).ExecuteContext(ctx)
	return errors.Join(err, app.Close(context.Background()))
}
