package convert

import (
	"fmt"
	"strings"

	"github.com/flarebyte/csv2bin/cmd/csv2bin/cmdutil"
	"github.com/flarebyte/csv2bin/internal/pipeline"
)

// evaluateRunExit turns a finished conversion into the command's error, or
// nil on a clean run.
func evaluateRunExit(res pipeline.Result, runErr error) error {
	switch res.ExitCode {
	case pipeline.ExitSuccess:
		return nil
	case pipeline.ExitPartial:
		st := res.Stats
		return cmdutil.ExitError{
			Code: pipeline.ExitPartial,
			Msg:  fmt.Sprintf("completed with errors: %d failed, %d rejected", st.Failed, st.ValidationErrors),
		}
	}
	if runErr != nil {
		return cmdutil.ExitError{Code: pipeline.ExitFailure, Msg: singleLine(runErr.Error())}
	}
	return cmdutil.ExitError{Code: pipeline.ExitFailure, Msg: "no records converted"}
}

func singleLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "error"
	}
	return s
}
