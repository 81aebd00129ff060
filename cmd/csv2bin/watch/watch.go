package watch

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/flarebyte/csv2bin/cmd/csv2bin/cmdutil"
	"github.com/flarebyte/csv2bin/cmd/csv2bin/convert"
	"github.com/flarebyte/csv2bin/internal/pipeline"
	iwatch "github.com/flarebyte/csv2bin/internal/watch"
)

var (
	flags        convert.Request
	flagSchedule string
	flagNoFile   bool
)

// Cmd represents the `csv2bin watch` command.
var Cmd = &cobra.Command{
	Use:   "watch [input.csv] [output.binary] [rules]",
	Short: "Re-run the conversion when the input changes or on a schedule",
	Long: `Watch converts the input every time it is written to, and on every tick
of --schedule (a cron expression such as "*/15 * * * *" or "@every 1h"). Each
run starts from scratch; checkpoints are never resumed. Stop with Ctrl-C.`,
	Args:          cobra.MaximumNArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		req := flags
		req.Input, req.Output, req.Rules = convert.Positional(args)
		req.Input = cmdutil.Pick(req.Input, pipeline.DefaultInputPath)
		req.Resume = convert.ResumeNo
		req.Quiet = true

		r := &convert.Runner{
			Config: app.Config,
			Logger: app.Logger,
			Stdin:  os.Stdin,
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		}
		opts := iwatch.Options{Schedule: flagSchedule, Logger: app.Logger}
		if !flagNoFile {
			opts.Path = req.Input
		}
		return iwatch.Run(cmd.Context(), opts, func(ctx context.Context, reason string) {
			res, err := r.Run(ctx, req)
			code := 0
			if ec, ok := err.(interface{ ExitCode() int }); ok {
				code = ec.ExitCode()
			}
			app.Logger.Info("watch run finished",
				"trigger", reason,
				"run_id", res.RunID,
				"exit_code", code,
			)
		})
	},
}

func init() {
	convert.BindFlags(Cmd, &flags)
	Cmd.Flags().StringVar(&flagSchedule, "schedule", "", "Cron expression for scheduled runs")
	Cmd.Flags().BoolVar(&flagNoFile, "no-file", false, "Do not watch the input file; use --schedule only")
}
