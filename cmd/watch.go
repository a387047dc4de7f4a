// Package cmd defines the vigil subcommands.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grovetools/vigil/cli"
	"github.com/grovetools/vigil/watch"
	"github.com/spf13/cobra"
)

// NewWatchCmd returns the watch command, the main entry point: it loads the
// configuration, starts the dispatcher, and blocks until interrupted.
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch file groups and run build commands on change",
		Long: `Watch the configured file groups and run each group's build
command after its debounce interval of quiet passes.

Groups are independent: a change burst in one group never delays
another, and each group runs at most one command at a time.

Examples:
  # Watch using the nearest vigil.yml
  vigil watch

  # Watch with an explicit configuration file
  vigil watch -c ./vigil.yml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			handler := cli.NewErrorHandler(opts.Verbose)
			// Honors --verbose and --json on top of the logging config.
			logger := cli.GetLogger(cmd)

			cfg, err := cli.ResolveConfig(cmd)
			if err != nil {
				return handler.Handle(err)
			}
			logger.WithField("config", cfg.Path).Debug("Loaded configuration")

			dispatcher, err := watch.NewDispatcher(cfg, watch.Options{
				Reporter: cli.NewConsoleReporter(),
			})
			if err != nil {
				return handler.Handle(err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-stop
				logger.Info("Received stop signal")
				cancel()
			}()

			if err := dispatcher.Run(ctx); err != nil {
				return handler.Handle(err)
			}
			return nil
		},
	}
}
