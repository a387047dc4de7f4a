package cmd

import (
	"fmt"
	"os"

	"github.com/grovetools/vigil/cli"
	"github.com/grovetools/vigil/command"
	"github.com/grovetools/vigil/config"
	"github.com/grovetools/vigil/errors"
	"github.com/grovetools/vigil/schema"
	"github.com/grovetools/vigil/theme"
	"github.com/spf13/cobra"
)

// NewValidateCmd returns the validate command: schema plus semantic checks
// over the configuration file, without starting the watcher.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the vigil configuration file",
		Long: `Check the configuration file against the JSON Schema and the
semantic rules (unique group names, non-empty file lists), and warn
about tracked files or commands that do not exist.

Examples:
  vigil validate
  vigil validate -c ./vigil.yml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			handler := cli.NewErrorHandler(opts.Verbose)
			t := theme.DefaultTheme

			path := opts.ConfigFile
			if path == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return handler.Handle(err)
				}
				path, err = config.FindConfigFile(cwd)
				if err != nil {
					return handler.Handle(err)
				}
			}

			// Shape first: schema errors point at the exact offending key.
			raw, err := config.LoadRaw(path)
			if err != nil {
				return handler.Handle(err)
			}
			validator, err := schema.NewValidator()
			if err != nil {
				return handler.Handle(err)
			}
			if err := validator.Validate(raw); err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", t.Error.Render("✗"), err)
				// Already rendered above; the code keeps the root command
				// from printing it a second time.
				return errors.Wrap(err, errors.ErrCodeConfigValidation, "configuration failed schema validation")
			}

			cfg, err := config.Load(path)
			if err != nil {
				return handler.Handle(err)
			}

			fmt.Printf("%s %s is valid\n", t.Success.Render("✓"), cfg.Path)
			fmt.Printf("  %d group(s), debounce %s\n\n", len(cfg.Groups), cfg.Debounce())

			// Existence checks are warnings, not failures: files may be
			// created later and still get picked up.
			for _, group := range cfg.Groups {
				fmt.Printf("  %s → %s\n", t.Accent.Render(group.Name), group.Command)
				if !command.ProgramExists(group.Command) {
					fmt.Printf("    %s command not found: %s\n", t.Warning.Render("!"), group.Command.Program)
				}
				for _, file := range group.Files {
					if _, err := os.Stat(file); err == nil {
						fmt.Printf("    %s %s\n", t.Success.Render("✓"), file)
					} else {
						fmt.Printf("    %s %s %s\n", t.Warning.Render("✗"), file, t.Muted.Render("(not found)"))
					}
				}
			}
			return nil
		},
	}
}
