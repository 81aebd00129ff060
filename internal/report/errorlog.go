package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"
)

// ErrorLog writes the per-line failure log. It is safe to use a nil
// *ErrorLog; writes are then dropped.
type ErrorLog struct {
	w      *bufio.Writer
	closer io.Closer
	now    func() time.Time
}

// OpenErrorLog truncates path and writes the log header.
func OpenErrorLog(path string, started time.Time) (*ErrorLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create error log: %w", err)
	}
	l := NewErrorLog(f, started)
	l.closer = f
	return l, nil
}

// NewErrorLog writes the log header to w.
func NewErrorLog(w io.Writer, started time.Time) *ErrorLog {
	l := &ErrorLog{w: bufio.NewWriter(w), now: time.Now}
	fmt.Fprintf(l.w, "Customer Conversion Error Log\n")
	fmt.Fprintf(l.w, "Started: %s\n\n", started.Format(time.ANSIC))
	fmt.Fprintf(l.w, "========================================\n\n")
	return l
}

// ParseError records a line that could not be turned into a record.
func (l *ErrorLog) ParseError(line int64, reason, content string) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.w, "[%s] Line %d: %s\n", l.now().Format(time.ANSIC), line, reason)
	fmt.Fprintf(l.w, "  Content: %s\n\n", content)
}

// Violations records the failed checks of one record.
func (l *ErrorLog) Violations(line int64, messages []string) {
	if l == nil || len(messages) == 0 {
		return
	}
	fmt.Fprintf(l.w, "Line %d - Validation warnings:\n", line)
	for _, m := range messages {
		fmt.Fprintf(l.w, "  - %s\n", m)
	}
}

// Close flushes the log and closes the file it was opened on.
func (l *ErrorLog) Close() error {
	if l == nil {
		return nil
	}
	err := l.w.Flush()
	if l.closer != nil {
		if cerr := l.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
