package convert

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/flarebyte/csv2bin/cmd/csv2bin/cmdutil"
)

var flags Request

// Cmd represents the `csv2bin convert` command.
var Cmd = &cobra.Command{
	Use:   "convert [input.csv] [output.binary] [rules]",
	Short: "Convert a customer CSV file into binary records",
	Long: `Convert reads customer records from a CSV file, validates them and writes
fixed-size binary records. Without arguments it reads data_full/customers.csv
and writes data/customers.binary. The optional rules file is either key=value
lines or a .cue file.`,
	Args:          cobra.MaximumNArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		req := flags
		req.Input, req.Output, req.Rules = Positional(args)
		r := &Runner{
			Config: app.Config,
			Logger: app.Logger,
			Stdin:  os.Stdin,
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		}
		_, err = r.Run(cmd.Context(), req)
		return err
	},
}

// Positional splits [input] [output] [rules].
func Positional(args []string) (input, output, rules string) {
	if len(args) > 0 {
		input = args[0]
	}
	if len(args) > 1 {
		output = args[1]
	}
	if len(args) > 2 {
		rules = args[2]
	}
	return input, output, rules
}

// BindFlags registers the conversion flags on cmd, writing into req.
func BindFlags(cmd *cobra.Command, req *Request) {
	f := cmd.Flags()
	f.StringVar(&req.Checkpoint, "checkpoint", "", "Checkpoint file (default $CSV2BIN_CHECKPOINT_PATH)")
	f.StringVar(&req.ErrorLog, "error-log", "", "Error log file (default $CSV2BIN_ERROR_LOG)")
	f.StringVar(&req.Report, "report", "", "Text summary report (default $CSV2BIN_REPORT_PATH)")
	f.StringVar(&req.ReportYAML, "report-yaml", "", "YAML summary (default $CSV2BIN_REPORT_YAML)")
	f.StringVar(&req.HistoryDB, "history-db", "", "SQLite run ledger (default $CSV2BIN_HISTORY_DB)")
	f.StringVar(&req.FilterFile, "filter", "", "Lua file whose result decides whether a record is written")
	f.StringVar(&req.FilterExpr, "filter-expr", "", "Inline Lua expression, e.g. 'record.state == \"TX\"'")
	f.IntVar(&req.BatchSize, "batch-size", 0, "Records per write (default $CSV2BIN_BATCH_SIZE)")
	f.BoolVarP(&req.Quiet, "quiet", "q", false, "Do not print progress")
}

func init() {
	BindFlags(Cmd, &flags)
	Cmd.Flags().StringVar(&flags.Resume, "resume", ResumeAsk, "Resume from a checkpoint: ask, yes or no")
}
