package inspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/flarebyte/csv2bin/cmd/csv2bin/cmdutil"
	"github.com/flarebyte/csv2bin/internal/binfile"
	"github.com/flarebyte/csv2bin/internal/record"
)

var (
	flagIndex int64
	flagLimit int64
	flagJSON  bool
)

// Cmd represents the `csv2bin inspect` command.
var Cmd = &cobra.Command{
	Use:           "inspect <file.binary>",
	Short:         "Print the records of a binary customer file",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := binfile.OpenReader(args[0])
		if err != nil {
			return cmdutil.ExitError{Code: 1, Msg: err.Error()}
		}
		defer r.Close()
		return inspect(r, cmd.OutOrStdout(), cmd.ErrOrStderr(), flagIndex, flagLimit, flagJSON)
	},
}

func init() {
	Cmd.Flags().Int64Var(&flagIndex, "index", -1, "Print only the record at this zero-based index")
	Cmd.Flags().Int64Var(&flagLimit, "limit", 0, "Print at most this many records (0 means all)")
	Cmd.Flags().BoolVar(&flagJSON, "json", false, "Print one JSON object per record")
}

var errStop = errors.New("stop")

func inspect(r *binfile.Reader, stdout, stderr io.Writer, index, limit int64, asJSON bool) error {
	if r.Trailing() != 0 {
		_, _ = fmt.Fprintf(stderr, "warning: file size %d is not a multiple of %d; %d trailing bytes ignored\n",
			r.Size(), record.RecordSize, r.Trailing())
	}
	emit := func(i int64, c record.Customer) error {
		if asJSON {
			return encodeJSON(stdout, i, c)
		}
		_, err := fmt.Fprintln(stdout, formatRecord(i, c))
		return err
	}

	if index >= 0 {
		c, err := r.ReadAt(index)
		if err != nil {
			return cmdutil.ExitError{Code: 1, Msg: err.Error()}
		}
		return emit(index, c)
	}

	err := r.All(func(i int64, c record.Customer) error {
		if limit > 0 && i >= limit {
			return errStop
		}
		return emit(i, c)
	})
	if err != nil && !errors.Is(err, errStop) {
		return err
	}
	if !asJSON {
		_, _ = fmt.Fprintf(stderr, "%d records\n", r.Count())
	}
	return nil
}

func formatRecord(i int64, c record.Customer) string {
	return fmt.Sprintf("#%d id=%d name=%s %s email=%s phone=%s city=%s state=%s zip=%s registered=%s",
		i, c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.City, c.State, c.ZipCode, c.RegistrationDate)
}

func encodeJSON(w io.Writer, i int64, c record.Customer) error {
	m := c.Map()
	m["index"] = i
	return json.NewEncoder(w).Encode(m)
}
