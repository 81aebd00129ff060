package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/flarebyte/csv2bin/cmd/csv2bin/cmdutil"
	"github.com/flarebyte/csv2bin/internal/buildinfo"
	"github.com/flarebyte/csv2bin/internal/config"
	"github.com/flarebyte/csv2bin/internal/history"
	"github.com/flarebyte/csv2bin/internal/luafilter"
	"github.com/flarebyte/csv2bin/internal/pipeline"
	"github.com/flarebyte/csv2bin/internal/provenance"
	"github.com/flarebyte/csv2bin/internal/report"
	"github.com/flarebyte/csv2bin/internal/validate"
)

// Request is one conversion as asked for on the command line. Empty fields
// fall back to the Runner's configuration.
type Request struct {
	Input      string
	Output     string
	Rules      string
	Checkpoint string
	ErrorLog   string
	Report     string
	ReportYAML string
	HistoryDB  string
	Resume     string
	FilterFile string
	FilterExpr string
	BatchSize  int
	Quiet      bool
}

// Runner executes conversions. The watch command keeps one Runner for all
// its triggers.
type Runner struct {
	Config *config.Config
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Run performs req. The returned error carries the exit code.
func (r *Runner) Run(ctx context.Context, req Request) (pipeline.Result, error) {
	cfg := r.Config
	log := r.Logger
	req = r.fill(req)

	rules, err := r.loadRules(req.Rules)
	if err != nil {
		return pipeline.Result{}, cmdError(err)
	}
	confirm, err := confirmer(req.Resume, r.Stdin, r.Stderr)
	if err != nil {
		return pipeline.Result{}, cmdError(err)
	}
	filter, err := r.loadFilter(req)
	if err != nil {
		return pipeline.Result{}, cmdError(err)
	}
	if filter != nil {
		defer filter.Close()
	}

	started := r.now()
	errLog, err := report.OpenErrorLog(req.ErrorLog, started)
	if err != nil {
		log.Warn("could not create error log, continuing without it", "path", req.ErrorLog, "error", err)
	}
	defer func() {
		if err := errLog.Close(); err != nil {
			log.Warn("could not close error log", "error", err)
		}
	}()

	prov, err := provenance.Lookup(req.Input)
	if err != nil {
		log.Debug("no provenance for input", "error", err)
	}

	opts := pipeline.Options{
		RunID:           pipeline.NewRunID(),
		InputPath:       req.Input,
		OutputPath:      req.Output,
		CheckpointPath:  req.Checkpoint,
		BatchSize:       req.BatchSize,
		CheckpointEvery: cfg.Convert.CheckpointEvery,
		SyncEvery:       cfg.Convert.SyncEvery,
		ProgressEvery:   cfg.Convert.ProgressEvery,
	}
	env := pipeline.Env{
		Rules:    rules,
		Logger:   log.With("input", req.Input, "output", req.Output),
		Errors:   errLog,
		Confirm:  confirm,
		Progress: newProgressReporter(req.Quiet, r.Stderr).hook(),
		Report: func(res pipeline.Result) error {
			return r.writeReports(req, report.Summary{
				Version:      buildinfo.Short(),
				ErrorLogPath: req.ErrorLog,
				Result:       res,
				Provenance:   prov,
			})
		},
		Now: r.Now,
	}
	if filter != nil {
		env.Filter = filter
	}

	res, runErr := pipeline.Run(ctx, env, opts)
	r.recordHistory(ctx, req.HistoryDB, res, prov)
	log.Info("conversion finished",
		"run_id", res.RunID,
		"state", res.State.String(),
		"succeeded", res.Stats.Succeeded,
		"failed", res.Stats.Failed,
		"exit_code", res.ExitCode,
	)
	return res, evaluateRunExit(res, runErr)
}

func (r *Runner) fill(req Request) Request {
	cfg := r.Config
	req.Input = cmdutil.Pick(req.Input, pipeline.DefaultInputPath)
	req.Output = cmdutil.Pick(req.Output, pipeline.DefaultOutputPath)
	req.Checkpoint = cmdutil.Pick(req.Checkpoint, cfg.Paths.Checkpoint)
	req.ErrorLog = cmdutil.Pick(req.ErrorLog, cfg.Paths.ErrorLog)
	req.Report = cmdutil.Pick(req.Report, cfg.Paths.Report)
	req.ReportYAML = cmdutil.Pick(req.ReportYAML, cfg.Paths.ReportYAML)
	req.HistoryDB = cmdutil.Pick(req.HistoryDB, cfg.Paths.HistoryDB)
	if req.BatchSize <= 0 {
		req.BatchSize = cfg.Convert.BatchSize
	}
	return req
}

func (r *Runner) loadRules(path string) (validate.Rules, error) {
	rules := validate.DefaultRules()
	if path != "" {
		var warnings []string
		var err error
		rules, warnings, err = config.LoadRules(path)
		if err != nil {
			return rules, err
		}
		for _, w := range warnings {
			r.Logger.Warn(w, "rules", path)
		}
	}
	for _, t := range rules.Toggles() {
		state := "OFF"
		if *t.Value {
			state = "ON"
		}
		r.Logger.Info("validation rule", "rule", t.Key, "state", state)
	}
	return rules, nil
}

func (r *Runner) loadFilter(req Request) (*luafilter.Filter, error) {
	lim := luafilter.Limits{Timeout: r.Config.Lua.Timeout}
	switch {
	case req.FilterFile != "" && req.FilterExpr != "":
		return nil, errors.New("use either --filter or --filter-expr, not both")
	case req.FilterFile != "":
		return luafilter.Load(req.FilterFile, lim)
	case req.FilterExpr != "":
		return luafilter.New(req.FilterExpr, lim)
	}
	return nil, nil
}

func (r *Runner) writeReports(req Request, s report.Summary) error {
	if err := report.WriteConsole(r.Stdout, s); err != nil {
		return err
	}
	var errs []error
	if req.Report != "" {
		if err := report.WriteText(req.Report, s); err != nil {
			errs = append(errs, fmt.Errorf("summary report: %w", err))
		} else {
			r.Logger.Info("summary report saved", "path", req.Report)
		}
	}
	if req.ReportYAML != "" {
		if err := report.WriteYAML(req.ReportYAML, s); err != nil {
			errs = append(errs, fmt.Errorf("yaml summary: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) recordHistory(ctx context.Context, path string, res pipeline.Result, prov *provenance.Info) {
	if path == "" || res.RunID == "" {
		return
	}
	db, err := history.Open(path)
	if err != nil {
		r.Logger.Warn("history unavailable", "path", path, "error", err)
		return
	}
	defer db.Close()

	st := res.Stats
	run := history.Run{
		ID:           res.RunID,
		InputPath:    res.InputPath,
		OutputPath:   res.OutputPath,
		StartedAt:    st.StartedAt,
		FinishedAt:   st.FinishedAt,
		Processed:    st.Processed,
		Succeeded:    st.Succeeded,
		Failed:       st.Failed,
		Warnings:     st.ValidationWarnings,
		Errors:       st.ValidationErrors,
		BytesWritten: st.BytesWritten,
		ResumedFrom:  res.ResumedFrom,
		ExitCode:     res.ExitCode,
		Status:       report.Summary{Result: res}.Status(),
	}
	if prov != nil {
		run.InputCommit = prov.Commit
	}
	// A cancelled conversion is still worth a ledger row.
	if err := db.Record(context.WithoutCancel(ctx), run); err != nil {
		r.Logger.Warn("could not record run", "error", err)
	}
}

func cmdError(err error) error {
	return cmdutil.ExitError{Code: pipeline.ExitFailure, Msg: singleLine(err.Error())}
}
