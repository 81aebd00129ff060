package convert

import (
	"errors"
	"fmt"
	"testing"

	"github.com/flarebyte/csv2bin/internal/pipeline"
)

func assertExitError(t *testing.T, err error, wantMsg string, wantCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != wantMsg {
		t.Fatalf("unexpected error: %v", err)
	}
	ec, ok := err.(interface{ ExitCode() int })
	if !ok || ec.ExitCode() != wantCode {
		t.Fatalf("unexpected exit code")
	}
}

func resultWith(st pipeline.Stats, fatal bool) pipeline.Result {
	return pipeline.Result{Stats: st, ExitCode: pipeline.ExitCode(st, fatal)}
}

func TestEvaluateRunExit_Success(t *testing.T) {
	res := resultWith(pipeline.Stats{Processed: 3, Succeeded: 3}, false)
	if err := evaluateRunExit(res, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEvaluateRunExit_Partial(t *testing.T) {
	res := resultWith(pipeline.Stats{Processed: 3, Succeeded: 2, Failed: 1, ValidationErrors: 1}, false)
	assertExitError(t, evaluateRunExit(res, nil), "completed with errors: 1 failed, 1 rejected", 2)
}

func TestEvaluateRunExit_NothingWritten(t *testing.T) {
	res := resultWith(pipeline.Stats{Processed: 2, Failed: 2}, false)
	assertExitError(t, evaluateRunExit(res, nil), "no records converted", 1)
}

func TestEvaluateRunExit_Fatal(t *testing.T) {
	runErr := fmt.Errorf("%w: open input:\n  no such file", pipeline.ErrResourceUnavailable)
	res := resultWith(pipeline.Stats{Succeeded: 5}, true)
	err := evaluateRunExit(res, runErr)
	assertExitError(t, err, "resource unavailable: open input: no such file", 1)
	if errors.Is(err, pipeline.ErrResourceUnavailable) {
		t.Fatalf("exit error should carry only the message")
	}
}
