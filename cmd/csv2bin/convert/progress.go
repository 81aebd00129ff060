package convert

import (
	"fmt"
	"io"
	"sync"

	"github.com/flarebyte/csv2bin/internal/pipeline"
)

// progressReporter rewrites one console line as the conversion advances.
type progressReporter struct {
	enabled bool
	w       io.Writer

	mu      sync.Mutex
	started bool
}

func newProgressReporter(quiet bool, w io.Writer) *progressReporter {
	if quiet || w == nil {
		return &progressReporter{enabled: false}
	}
	return &progressReporter{enabled: true, w: w}
}

// hook returns the pipeline progress callback, or nil when disabled.
func (p *progressReporter) hook() func(pipeline.Progress) {
	if p == nil || !p.enabled {
		return nil
	}
	return p.emit
}

func (p *progressReporter) emit(pr pipeline.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pr.Final && !p.started {
		return
	}
	p.started = true
	rate := 0.0
	if secs := pr.Elapsed.Seconds(); secs > 0 {
		rate = float64(pr.Processed) / secs
	}
	_, _ = fmt.Fprintf(p.w, "\rProcessed: %d records (%.1f%%) - Rate: %.0f rec/sec", pr.Processed, pr.Percent, rate)
	if pr.Final {
		_, _ = fmt.Fprintln(p.w)
	}
}
