package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flarebyte/csv2bin/internal/record"
	"github.com/flarebyte/csv2bin/internal/validate"
)

// ErrorSink receives per-line failures for the error log.
type ErrorSink interface {
	ParseError(line int64, reason, content string)
	Violations(line int64, messages []string)
}

// Confirmer answers a yes/no question, such as whether to resume from a
// checkpoint.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

// Always answers every question with the same value.
type Always bool

func (a Always) Confirm(string) (bool, error) { return bool(a), nil }

// Filter decides whether an accepted record is written.
type Filter interface {
	Keep(ctx context.Context, c record.Customer) (bool, error)
}

// Progress is a snapshot passed to the progress hook.
type Progress struct {
	Processed int64
	Succeeded int64
	Elapsed   time.Duration
	// Percent is input bytes consumed, 0 when the size is unknown.
	Percent float64
	Final   bool
}

// Env carries everything a conversion needs besides its file paths. Nil
// collaborators are replaced by no-ops: logs are discarded, checkpoints are
// never resumed and every record is kept.
type Env struct {
	Rules    validate.Rules
	Logger   *slog.Logger
	Errors   ErrorSink
	Confirm  Confirmer
	Filter   Filter
	Progress func(Progress)
	// Report runs once the output is closed, even after a fatal error,
	// provided at least one line was read.
	Report func(Result) error
	Now    func() time.Time
}

// Options locate the files of one conversion and tune its intervals.
type Options struct {
	RunID          string
	InputPath      string
	OutputPath     string
	CheckpointPath string

	BatchSize       int
	CheckpointEvery int
	SyncEvery       int
	ProgressEvery   int
}

const (
	DefaultInputPath       = "data_full/customers.csv"
	DefaultOutputPath      = "data/customers.binary"
	DefaultBatchSize       = 1000
	DefaultCheckpointEvery = 5000
	DefaultSyncEvery       = 10000
	DefaultProgressEvery   = 1000
)

// NewRunID returns a fresh identifier for a conversion.
func NewRunID() string { return uuid.NewString() }

func (o Options) withDefaults() Options {
	if o.RunID == "" {
		o.RunID = NewRunID()
	}
	if o.InputPath == "" {
		o.InputPath = DefaultInputPath
	}
	if o.OutputPath == "" {
		o.OutputPath = DefaultOutputPath
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.CheckpointEvery <= 0 {
		o.CheckpointEvery = DefaultCheckpointEvery
	}
	if o.SyncEvery <= 0 {
		o.SyncEvery = DefaultSyncEvery
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = DefaultProgressEvery
	}
	return o
}

type discardSink struct{}

func (discardSink) ParseError(int64, string, string) {}
func (discardSink) Violations(int64, []string)       {}
