package root

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/flarebyte/csv2bin/cmd/csv2bin/cmdutil"
	"github.com/flarebyte/csv2bin/cmd/csv2bin/convert"
	"github.com/flarebyte/csv2bin/cmd/csv2bin/generate"
	"github.com/flarebyte/csv2bin/cmd/csv2bin/history"
	"github.com/flarebyte/csv2bin/cmd/csv2bin/inspect"
	"github.com/flarebyte/csv2bin/cmd/csv2bin/version"
	"github.com/flarebyte/csv2bin/cmd/csv2bin/watch"
	"github.com/flarebyte/csv2bin/internal/config"
	"github.com/flarebyte/csv2bin/internal/logging"
)

var (
	envFile   string
	logLevel  string
	logFormat string
)

// NewRootCmd creates the root command for csv2bin.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv2bin",
		Short: "Convert customer CSV files into fixed-size binary records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFile(envFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.Logging.Level = cmdutil.Pick(logLevel, cfg.Logging.Level)
			cfg.Logging.Format = cmdutil.Pick(logFormat, cfg.Logging.Format)
			logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
			cmd.SetContext(cmdutil.WithApp(cmd.Context(), &cmdutil.App{Config: cfg, Logger: logger}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&envFile, "env-file", ".env", "Environment file loaded before reading CSV2BIN_* variables")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "Log format: text or json")

	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(convert.Cmd)
	cmd.AddCommand(inspect.Cmd)
	cmd.AddCommand(generate.Cmd)
	cmd.AddCommand(watch.Cmd)
	cmd.AddCommand(history.Cmd)

	return cmd
}

// Execute runs the root command with provided args.
func Execute(ctx context.Context, args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
