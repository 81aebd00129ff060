package generate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flarebyte/csv2bin/cmd/csv2bin/cmdutil"
	"github.com/flarebyte/csv2bin/internal/synth"
)

var (
	flagOut  string
	flagOpts = synth.Options{Count: 2000, Seed: 42, StartID: 1}
)

// Cmd represents the `csv2bin generate` command.
var Cmd = &cobra.Command{
	Use:           "generate",
	Short:         "Write a synthetic customer CSV file",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		st, err := generate(flagOut, cmd.OutOrStdout(), flagOpts)
		if err != nil {
			return cmdutil.ExitError{Code: 1, Msg: err.Error()}
		}
		app.Logger.Info("synthetic data written", "path", flagOut, "rows", st.Rows, "invalid", st.Invalid)
		return nil
	},
}

func init() {
	f := Cmd.Flags()
	f.StringVarP(&flagOut, "out", "o", "", "Output CSV path (default stdout)")
	f.IntVar(&flagOpts.Count, "count", flagOpts.Count, "Number of customer rows")
	f.Int64Var(&flagOpts.Seed, "seed", flagOpts.Seed, "Random seed")
	f.IntVar(&flagOpts.StartID, "start-id", flagOpts.StartID, "First customer_id")
	f.Float64Var(&flagOpts.InvalidRate, "invalid-rate", 0, "Share of rows, 0 to 1, given one defect")
}

func generate(path string, stdout io.Writer, opts synth.Options) (synth.Stats, error) {
	if path == "" {
		return synth.Write(stdout, opts)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return synth.Stats{}, fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return synth.Stats{}, err
	}
	w := bufio.NewWriter(f)
	st, err := synth.Write(w, opts)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return st, err
}
