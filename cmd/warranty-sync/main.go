// Package main provides the entry point for the warranty-sync CLI.
package main

import (
	"context"
	"os"

	"github.com/CC-Digital-Innovation/warranty-sync/cmd/warranty-sync/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	// A signal mid-run cancels the context so the sync stops cleanly
	// between record writes.
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
