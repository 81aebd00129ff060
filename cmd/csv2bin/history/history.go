package history

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/flarebyte/csv2bin/cmd/csv2bin/cmdutil"
	ihistory "github.com/flarebyte/csv2bin/internal/history"
)

var (
	flagDB    string
	flagLimit int
)

// Cmd represents the `csv2bin history` command.
var Cmd = &cobra.Command{
	Use:           "history",
	Short:         "List recent conversions from the run ledger",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		path := cmdutil.Pick(flagDB, app.Config.Paths.HistoryDB)
		if path == "" {
			return cmdutil.ExitError{Code: 1, Msg: "no ledger: pass --db or set CSV2BIN_HISTORY_DB"}
		}
		db, err := ihistory.Open(path)
		if err != nil {
			return cmdutil.ExitError{Code: 1, Msg: err.Error()}
		}
		defer db.Close()
		runs, err := db.Recent(cmd.Context(), flagLimit)
		if err != nil {
			return err
		}
		return printRuns(cmd.OutOrStdout(), runs)
	},
}

func init() {
	Cmd.Flags().StringVar(&flagDB, "db", "", "SQLite run ledger (default $CSV2BIN_HISTORY_DB)")
	Cmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of runs to list")
}

func printRuns(w io.Writer, runs []ihistory.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tRUN\tINPUT\tCOMMIT\tOK\tFAILED\tEXIT\tSTATUS")
	for _, r := range runs {
		commit := r.InputCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if commit == "" {
			commit = "-"
		}
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.StartedAt.Local().Format(time.DateTime), id, r.InputPath, commit,
			r.Succeeded, r.Failed, r.ExitCode, r.Status)
	}
	return tw.Flush()
}
