package app

import (
	"github.com/spf13/cobra"

	"github.com/revenueops/crosscheck/cmd/crosscheck/cmd/plans"
	"github.com/revenueops/crosscheck/cmd/crosscheck/cmd/run"
)

// NewRunCommand creates the run command with app dependencies.
func (a *App) NewRunCommand() *cobra.Command {
	return run.NewCommand(a)
}

// NewPlansCommand creates the plans command with app dependencies.
func (a *App) NewPlansCommand() *cobra.Command {
	return plans.NewCommand(a)
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("crosscheck %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
