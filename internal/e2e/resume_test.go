package e2e

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/flarebyte/csv2bin/internal/checkpoint"
	"github.com/flarebyte/csv2bin/internal/logging"
	"github.com/flarebyte/csv2bin/internal/pipeline"
	"github.com/flarebyte/csv2bin/internal/record"
	"github.com/flarebyte/csv2bin/internal/synth"
	"github.com/flarebyte/csv2bin/internal/testutil"
	"github.com/flarebyte/csv2bin/internal/validate"
)

// interruptAfter keeps every record and cancels the run once n have passed.
type interruptAfter struct {
	n      int
	seen   int
	cancel context.CancelFunc
}

func (f *interruptAfter) Keep(context.Context, record.Customer) (bool, error) {
	f.seen++
	if f.seen == f.n {
		f.cancel()
	}
	return true, nil
}

func TestResumeMatchesSinglePass(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteCSV(t, dir, "customers.csv", synth.Options{Count: 237, Seed: 99, InvalidRate: 0.1})
	opts := func(out, ckpt string) pipeline.Options {
		return pipeline.Options{
			InputPath:       in,
			OutputPath:      out,
			CheckpointPath:  ckpt,
			BatchSize:       10,
			CheckpointEvery: 20,
		}
	}

	whole := filepath.Join(dir, "whole.binary")
	if _, err := pipeline.Run(context.Background(), pipeline.Env{Rules: validate.DefaultRules(), Logger: logging.Discard()},
		opts(whole, filepath.Join(dir, "ckpt-whole"))); err != nil {
		t.Fatalf("single pass: %v", err)
	}

	parts := filepath.Join(dir, "parts.binary")
	ckpt := filepath.Join(dir, "ckpt-parts")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	first, err := pipeline.Run(ctx, pipeline.Env{
		Rules:  validate.DefaultRules(),
		Logger: logging.Discard(),
		Filter: &interruptAfter{n: 95, cancel: cancel},
	}, opts(parts, ckpt))
	if !errors.Is(err, pipeline.ErrResourceUnavailable) {
		t.Fatalf("interrupted run: %v", err)
	}
	if first.ExitCode != pipeline.ExitFailure {
		t.Fatalf("exit code %d", first.ExitCode)
	}
	saved, err := checkpoint.New(ckpt).Load()
	if err != nil {
		t.Fatal(err)
	}
	if saved != 90 {
		t.Fatalf("checkpoint %d, want 90 flushed records", saved)
	}

	// Keep a copy of the interrupted state for the declined-resume case.
	copyDir := filepath.Join(t.TempDir(), "copy")
	testutil.CopyTree(t, dir, copyDir)

	second, err := pipeline.Run(context.Background(), pipeline.Env{
		Rules:   validate.DefaultRules(),
		Logger:  logging.Discard(),
		Confirm: pipeline.Always(true),
	}, opts(parts, ckpt))
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	// Rejected rows before the checkpoint are passed over without using up the 90.
	if second.ResumedFrom != 90 || second.Stats.Skipped <= 90 {
		t.Fatalf("resumed from %d, skipped %d", second.ResumedFrom, second.Stats.Skipped)
	}
	if testutil.FileDigest(t, parts) != testutil.FileDigest(t, whole) {
		t.Fatalf("resumed output differs from single pass")
	}
	if _, err := os.Stat(ckpt); !os.IsNotExist(err) {
		t.Fatalf("checkpoint should be removed after a clean resume: %v", err)
	}

	// Declining the checkpoint converts from scratch and gives the same bytes.
	copyParts := filepath.Join(copyDir, "parts.binary")
	third, err := pipeline.Run(context.Background(), pipeline.Env{
		Rules:   validate.DefaultRules(),
		Logger:  logging.Discard(),
		Confirm: pipeline.Always(false),
	}, pipeline.Options{
		InputPath:      in,
		OutputPath:     copyParts,
		CheckpointPath: filepath.Join(copyDir, "ckpt-parts"),
		BatchSize:      10,
	})
	if err != nil {
		t.Fatalf("fresh run: %v", err)
	}
	if third.ResumedFrom != 0 || testutil.FileDigest(t, copyParts) != testutil.FileDigest(t, whole) {
		t.Fatalf("fresh run after declining resume differs")
	}
}
