// Package watch re-runs a job when a file changes or a cron schedule fires.
// Runs never overlap: a trigger that arrives while a run is in progress is
// dropped.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

// DefaultDebounce is the quiet period after the last write before a run.
const DefaultDebounce = 500 * time.Millisecond

// Job is what a trigger runs. reason is "file" or "schedule".
type Job func(ctx context.Context, reason string)

// Options select the triggers. At least one of Path and Schedule is needed.
type Options struct {
	Path     string
	Schedule string
	Debounce time.Duration
	Logger   *slog.Logger
}

// guard lets one run through at a time. wg counts debounce timers that are
// scheduled or running; each is added before its timer exists.
type guard struct {
	mu sync.Mutex
	wg sync.WaitGroup
}

func (g *guard) run(ctx context.Context, log *slog.Logger, reason string, job Job) {
	if !g.mu.TryLock() {
		log.Warn("conversion already running, trigger skipped", "trigger", reason)
		return
	}
	defer g.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	job(ctx, reason)
}

// after calls fn once d has passed.
func (g *guard) after(d time.Duration, fn func()) *time.Timer {
	g.wg.Add(1)
	return time.AfterFunc(d, func() {
		defer g.wg.Done()
		fn()
	})
}

// stop cancels a timer from after. A timer that already fired releases
// itself when fn returns.
func (g *guard) stop(t *time.Timer) {
	if t != nil && t.Stop() {
		g.wg.Done()
	}
}

// Run blocks until ctx is done, calling job on every trigger. It waits for
// an in-flight run before returning. Cron runs are drained by the scheduler's
// Stop.
func Run(ctx context.Context, opts Options, job Job) error {
	if opts.Path == "" && opts.Schedule == "" {
		return errors.New("watch needs a file or a schedule")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	g := &guard{}
	defer g.wg.Wait()

	if opts.Schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(opts.Schedule, func() { g.run(ctx, log, "schedule", job) }); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", opts.Schedule, err)
		}
		c.Start()
		defer func() { <-c.Stop().Done() }()
		log.Info("schedule active", "schedule", opts.Schedule)
	}

	if opts.Path == "" {
		<-ctx.Done()
		return nil
	}
	return watchFile(ctx, opts, log, g, job)
}

func watchFile(ctx context.Context, opts Options, log *slog.Logger, g *guard, job Job) error {
	absPath, err := filepath.Abs(opts.Path)
	if err != nil {
		return fmt.Errorf("bad path %q: %w", opts.Path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch dir %q: %w", filepath.Dir(absPath), err)
	}
	log.Info("watching input", "path", absPath)

	var timer *time.Timer
	defer func() { g.stop(timer) }()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if p, _ := filepath.Abs(event.Name); p != absPath {
				continue
			}
			g.stop(timer)
			timer = g.after(opts.Debounce, func() {
				log.Info("input changed", "path", absPath)
				g.run(ctx, log, "file", job)
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		}
	}
}
