package main

import (
	"os"

	"github.com/grovetools/vigil/cli"
	"github.com/grovetools/vigil/cmd"
	"github.com/grovetools/vigil/errors"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"vigil",
		"Run build commands when watched file groups change",
	)

	// Add subcommands
	rootCmd.AddCommand(cmd.NewWatchCmd())
	rootCmd.AddCommand(cmd.NewValidateCmd())
	rootCmd.AddCommand(cmd.NewSchemaCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	cli.ApplyStyledHelpRecursive(rootCmd)

	// Coded errors are already rendered by the command's error handler;
	// everything else (flag errors, unknown commands) gets the styled line.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		if errors.GetCode(err) == "" {
			cli.PrintError(rootCmd, err)
		}
		os.Exit(1)
	}
}
