// Package binfile reads and writes flat files of fixed-size customer records.
package binfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/flarebyte/csv2bin/internal/record"
)

// ErrWriteFailure marks an output write or sync that did not fully succeed.
// It is fatal to a conversion.
var ErrWriteFailure = errors.New("write failure")

// Sink is where encoded batches go. *os.File satisfies it.
type Sink interface {
	io.Writer
	Sync() error
}

// Writer buffers records and writes them in batches of capacity records, one
// contiguous write per batch. Every syncEvery written records it syncs the
// sink to stable storage.
type Writer struct {
	sink      Sink
	capacity  int
	syncEvery int

	buf     []byte
	pending int

	written int64
	bytes   int64
}

// NewWriter returns a Writer. A syncEvery of 0 disables periodic syncs.
func NewWriter(sink Sink, capacity, syncEvery int) *Writer {
	if capacity <= 0 {
		capacity = 1
	}
	return &Writer{
		sink:      sink,
		capacity:  capacity,
		syncEvery: syncEvery,
		buf:       make([]byte, capacity*record.RecordSize),
	}
}

// Add buffers c. When the buffer reaches capacity it is flushed and the
// number of records written is returned.
func (w *Writer) Add(c record.Customer) (int, error) {
	off := w.pending * record.RecordSize
	record.Encode(w.buf[off:off+record.RecordSize], c)
	w.pending++
	if w.pending < w.capacity {
		return 0, nil
	}
	return w.Flush()
}

// Flush writes any buffered records and returns how many were written.
func (w *Writer) Flush() (int, error) {
	if w.pending == 0 {
		return 0, nil
	}
	count := w.pending
	want := count * record.RecordSize
	n, err := w.sink.Write(w.buf[:want])
	if err != nil {
		return 0, fmt.Errorf("%w: wrote %d of %d bytes: %v", ErrWriteFailure, n, want, err)
	}
	if n != want {
		return 0, fmt.Errorf("%w: wrote %d of %d bytes", ErrWriteFailure, n, want)
	}
	w.pending = 0

	before := w.written
	w.written += int64(count)
	w.bytes += int64(n)
	if w.syncEvery > 0 && before/int64(w.syncEvery) != w.written/int64(w.syncEvery) {
		if err := w.Sync(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Sync forces written data to stable storage.
func (w *Writer) Sync() error {
	if err := w.sink.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %v", ErrWriteFailure, err)
	}
	return nil
}

// Pending is the number of buffered, unwritten records.
func (w *Writer) Pending() int { return w.pending }

// Written is the number of records written so far.
func (w *Writer) Written() int64 { return w.written }

// BytesWritten is the number of bytes written so far.
func (w *Writer) BytesWritten() int64 { return w.bytes }
