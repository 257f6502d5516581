// Package main provides the entry point for the crosscheck CLI tool.
package main

import (
	"context"
	"os"

	"github.com/revenueops/crosscheck/cmd/crosscheck/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	// Create app instance
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	// Create context with signal handling
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	// Execute with context
	app.ExitOnError(application.Execute(ctx, os.Args[1:]))
}
