// Package pipeline converts a customer CSV file into fixed-size binary
// records.
//
// Run reads the input line by line and takes each data line through
// tokenizing, building and validating before buffering it for a batched
// write. Per-line problems are counted and logged and never stop the run.
// Only I/O failures on the input or output are fatal.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/flarebyte/csv2bin/internal/binfile"
	"github.com/flarebyte/csv2bin/internal/checkpoint"
	"github.com/flarebyte/csv2bin/internal/csvline"
	"github.com/flarebyte/csv2bin/internal/record"
	"github.com/flarebyte/csv2bin/internal/streaming"
	"github.com/flarebyte/csv2bin/internal/validate"
)

// Result describes a finished conversion.
type Result struct {
	RunID      string
	InputPath  string
	OutputPath string
	Stats      Stats
	Rules      validate.Rules
	State      State
	ExitCode   int
	// ResumedFrom is the checkpoint count the run started after, or 0.
	ResumedFrom int64
	// Err is the fatal error, if any. Run returns it as well.
	Err error
}

type driver struct {
	env  Env
	opts Options
	log  *slog.Logger
	ckpt *checkpoint.Manager

	state    State
	stats    Stats
	resumeAt int64
	// toSkip is how many more would-be-written records to pass over.
	toSkip int64

	counter *streaming.CountingReader
	writer  *binfile.Writer
}

// Run converts opts.InputPath into opts.OutputPath. The returned Result is
// always populated; err is non-nil only for fatal failures, in which case
// Result.ExitCode is 1.
func Run(ctx context.Context, env Env, opts Options) (Result, error) {
	opts = opts.withDefaults()
	if env.Logger == nil {
		env.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if env.Errors == nil {
		env.Errors = discardSink{}
	}
	if env.Confirm == nil {
		env.Confirm = Always(false)
	}
	if env.Now == nil {
		env.Now = time.Now
	}
	d := &driver{
		env:  env,
		opts: opts,
		log:  env.Logger.With("run_id", opts.RunID),
		ckpt: checkpoint.New(opts.CheckpointPath),
	}
	return d.run(ctx)
}

func (d *driver) setState(s State) {
	if d.state == s {
		return
	}
	d.log.Debug("state", "from", d.state.String(), "to", s.String())
	d.state = s
}

func (d *driver) result(err error) Result {
	d.stats.FinishedAt = d.env.Now()
	if err != nil {
		d.setState(StateFailed)
	}
	return Result{
		RunID:       d.opts.RunID,
		InputPath:   d.opts.InputPath,
		OutputPath:  d.opts.OutputPath,
		Stats:       d.stats,
		Rules:       d.env.Rules,
		State:       d.state,
		ExitCode:    ExitCode(d.stats, err != nil),
		ResumedFrom: d.resumeAt,
		Err:         err,
	}
}

func (d *driver) run(ctx context.Context) (Result, error) {
	d.stats.StartedAt = d.env.Now()
	d.setState(StateInit)

	in, err := os.Open(d.opts.InputPath)
	if err != nil {
		err = fmt.Errorf("%w: open input: %v", ErrResourceUnavailable, err)
		return d.result(err), err
	}
	defer in.Close()

	var size int64
	if fi, statErr := in.Stat(); statErr == nil {
		size = fi.Size()
	}
	lines, counter := streaming.Wrap(in, size)
	d.counter = counter

	d.resumeAt = d.decideResume()

	out, err := d.openOutput()
	if err != nil {
		return d.result(err), err
	}
	closed := false
	defer func() {
		if !closed {
			_ = out.Close()
		}
	}()
	d.writer = binfile.NewWriter(out, d.opts.BatchSize, d.opts.SyncEvery)
	d.toSkip = d.resumeAt

	d.log.Info("conversion started",
		"input", d.opts.InputPath,
		"output", d.opts.OutputPath,
		"resume_from", d.resumeAt,
	)

	err = d.readAll(ctx, bufio.NewReader(lines))
	if err == nil {
		d.setState(StateDraining)
		err = d.flush(d.writer.Flush)
	}
	closed = true
	if cerr := out.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("%w: close output: %v", ErrResourceUnavailable, cerr)
	}
	d.stats.BytesWritten = d.writer.BytesWritten()
	d.emitProgress(true)
	d.finishCheckpoint(err)

	res := d.result(err)
	if err != nil {
		d.log.Error("conversion failed", "error", reason(err), "written", d.stats.Succeeded)
	}
	if d.stats.TotalLines > 0 && d.env.Report != nil {
		if err == nil {
			d.setState(StateReporting)
		}
		if rerr := d.env.Report(res); rerr != nil {
			d.log.Warn("could not write report", "error", rerr)
		}
	}
	if err == nil {
		d.setState(StateDone)
		res.State = d.state
	}
	return res, err
}

// decideResume returns how many data records to skip.
func (d *driver) decideResume() int64 {
	n, err := d.ckpt.Load()
	if err != nil {
		d.log.Warn("ignoring checkpoint", "path", d.ckpt.Path(), "error", err)
		return 0
	}
	if n == 0 {
		return 0
	}
	ok, err := d.env.Confirm.Confirm(fmt.Sprintf("Resume from checkpoint at record %d? (y/n): ", n))
	if err != nil {
		d.log.Warn("resume prompt failed, starting over", "error", err)
		ok = false
	}
	if !ok {
		if err := d.ckpt.Remove(); err != nil {
			d.log.Warn("could not remove checkpoint", "error", err)
		}
		return 0
	}
	d.log.Info("resuming from checkpoint", "records", n)
	return n
}

// openOutput creates the output file. When resuming, the existing file is
// kept up to the checkpointed record count and appended to.
func (d *driver) openOutput() (*os.File, error) {
	if dir := filepath.Dir(d.opts.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create output directory: %v", ErrResourceUnavailable, err)
		}
	}
	if d.resumeAt == 0 {
		f, err := os.Create(d.opts.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("%w: create output: %v", ErrResourceUnavailable, err)
		}
		return f, nil
	}

	f, err := os.OpenFile(d.opts.OutputPath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open output: %v", ErrResourceUnavailable, err)
	}
	keep := d.resumeAt * record.RecordSize
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: stat output: %v", ErrResourceUnavailable, err)
	}
	if fi.Size() < keep {
		d.log.Warn("output shorter than checkpoint, starting over",
			"checkpoint", d.resumeAt, "output_bytes", fi.Size())
		d.resumeAt = 0
		keep = 0
	}
	if err := f.Truncate(keep); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: truncate output: %v", ErrResourceUnavailable, err)
	}
	if _, err := f.Seek(keep, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: seek output: %v", ErrResourceUnavailable, err)
	}
	return f, nil
}

func (d *driver) readAll(ctx context.Context, r *bufio.Reader) error {
	d.setState(StateReading)
	var lineNum int64
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: interrupted: %v", ErrResourceUnavailable, err)
		}
		line, rerr := r.ReadString('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return fmt.Errorf("%w: read input: %v", ErrResourceUnavailable, rerr)
		}
		if line == "" && rerr != nil {
			return nil
		}
		lineNum++
		d.stats.TotalLines++
		if err := d.line(ctx, lineNum, line); err != nil {
			return err
		}
		if rerr != nil {
			return nil
		}
		d.setState(StateReading)
	}
}

// line handles one input line. Only fatal errors are returned.
func (d *driver) line(ctx context.Context, lineNum int64, line string) error {
	if lineNum == 1 && csvline.IsHeader(line) {
		d.setState(StateSkipping)
		return nil
	}
	if csvline.IsBlank(line) {
		d.setState(StateSkipping)
		return nil
	}
	if d.toSkip > 0 {
		d.setState(StateSkipping)
		d.stats.Processed++
		d.stats.Skipped++
		if d.wouldWrite(ctx, csvline.Sanitize(line)) {
			d.toSkip--
		}
		return nil
	}

	d.stats.Processed++
	defer d.maybeProgress()

	d.setState(StateParsing)
	clean := csvline.Sanitize(line)
	tokens, err := csvline.Tokenize(clean, record.FieldCount)
	if err != nil {
		d.parseFailure(lineNum, err, clean)
		return nil
	}
	built, err := record.Build(tokens)
	if err != nil {
		d.parseFailure(lineNum, err, clean)
		return nil
	}
	for _, field := range built.Truncated {
		d.stats.ValidationWarnings++
		d.log.Warn("field truncated", "line", lineNum, "field", field, "max", record.MaxLen(field))
	}

	d.setState(StateValidating)
	verdict := validate.Check(built.Customer, d.env.Rules)
	d.stats.ValidationWarnings += int64(verdict.Warnings)
	v := verdict.Violations
	v.FieldTooLong = len(built.Truncated) > 0
	if !verdict.Accepted {
		d.stats.ValidationErrors++
		d.stats.Failed++
	}
	if v.Any() {
		d.env.Errors.Violations(lineNum, v.Messages())
	}
	if !verdict.Accepted && d.env.Rules.StrictMode {
		d.log.Debug("record rejected", "line", lineNum, "error", ErrValidationRejected)
		return nil
	}

	if d.env.Filter != nil {
		keep, err := d.env.Filter.Keep(ctx, built.Customer)
		if err != nil {
			// A lenient rejection was already counted as failed.
			if verdict.Accepted {
				d.stats.Failed++
			}
			d.logFailure(lineNum, fmt.Errorf("record filter: %w", err), clean)
			return nil
		}
		if !keep {
			d.stats.Filtered++
			return nil
		}
	}

	d.setState(StateBuffering)
	return d.flush(func() (int, error) { return d.writer.Add(built.Customer) })
}

// wouldWrite reports whether a line would reach the output, without
// touching stats, the error log or the writer. Resume uses it to count
// records the checkpoint already covers.
func (d *driver) wouldWrite(ctx context.Context, clean string) bool {
	tokens, err := csvline.Tokenize(clean, record.FieldCount)
	if err != nil {
		return false
	}
	built, err := record.Build(tokens)
	if err != nil {
		return false
	}
	if v := validate.Check(built.Customer, d.env.Rules); !v.Accepted && d.env.Rules.StrictMode {
		return false
	}
	if d.env.Filter == nil {
		return true
	}
	keep, err := d.env.Filter.Keep(ctx, built.Customer)
	return err == nil && keep
}

func (d *driver) parseFailure(lineNum int64, err error, content string) {
	d.stats.Failed++
	d.logFailure(lineNum, err, content)
}

func (d *driver) logFailure(lineNum int64, err error, content string) {
	d.env.Errors.ParseError(lineNum, reason(err), csvline.Printable(content))
	d.log.Debug("line failed", "line", lineNum, "error", reason(err))
}

// flush runs a writer call and books any records it wrote.
func (d *driver) flush(write func() (int, error)) error {
	before := d.writer.Written()
	n, err := write()
	if n > 0 {
		d.stats.Succeeded += int64(n)
		d.stats.BytesWritten = d.writer.BytesWritten()
		after := d.writer.Written()
		every := int64(d.opts.CheckpointEvery)
		if before/every != after/every {
			d.saveCheckpoint()
		}
	}
	return err
}

func (d *driver) saveCheckpoint() {
	n := d.resumeAt + d.writer.Written()
	if err := d.ckpt.Save(n); err != nil {
		d.log.Warn("could not save checkpoint", "error", err)
		return
	}
	d.log.Debug("checkpoint saved", "records", n)
}

// finishCheckpoint removes the checkpoint once the input has been read to
// the end. A fatal run records how far the output got.
func (d *driver) finishCheckpoint(runErr error) {
	if runErr == nil {
		if err := d.ckpt.Remove(); err != nil {
			d.log.Warn("could not remove checkpoint", "error", err)
		}
		return
	}
	if d.resumeAt+d.writer.Written() > 0 {
		d.saveCheckpoint()
	}
}

func (d *driver) maybeProgress() {
	if d.stats.Processed%int64(d.opts.ProgressEvery) == 0 {
		d.emitProgress(false)
	}
}

func (d *driver) emitProgress(final bool) {
	if d.env.Progress == nil {
		return
	}
	d.env.Progress(Progress{
		Processed: d.stats.Processed,
		Succeeded: d.stats.Succeeded,
		Elapsed:   d.env.Now().Sub(d.stats.StartedAt),
		Percent:   d.counter.Percent(),
		Final:     final,
	})
}
