package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/km-arc/configinject/framework/app"
	"github.com/km-arc/configinject/framework/logging"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	logLevel  string
	logFormat string
}

func (o *rootOptions) logger(cmd *cobra.Command) logging.Logger {
	return logging.New(o.logLevel, o.logFormat, cmd.ErrOrStderr())
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "configcheck",
		Short: "Validate configuration bindings before deploying",
		Long: `configcheck runs the same discovery and validation the application runs at
boot, against the configuration of a target environment.

Configuration Sources (in precedence order):
  1. --define/-D key=value flags (highest priority)
  2. Environment variables (DB_PORT satisfies db.port)
  3. .env files (--env-file, repeatable)
  4. YAML configuration file (--config)

Exit Codes:
  0  - Configuration is valid
  1  - Generic error
  2  - Manifest or configuration could not be loaded
  3  - Validation problems were found
  4  - Invalid flags or arguments`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newUsageError("invalid flag usage", err)
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	pf.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")

	cmd.AddCommand(
		newValidateCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the framework version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "configcheck %s\n", app.Version)
			return err
		},
	}
}
