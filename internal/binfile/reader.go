package binfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/flarebyte/csv2bin/internal/record"
)

// ErrEmpty is returned when a record file holds no bytes at all.
var ErrEmpty = errors.New("binary file is empty")

// Reader gives random access to a record file.
type Reader struct {
	src      io.ReaderAt
	closer   io.Closer
	size     int64
	count    int64
	trailing int64
}

// NewReader wraps src, which holds size bytes.
func NewReader(src io.ReaderAt, size int64) *Reader {
	return &Reader{
		src:      src,
		size:     size,
		count:    size / record.RecordSize,
		trailing: size % record.RecordSize,
	}
}

// OpenReader opens path and checks that it is a non-empty regular file.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if fi.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	r := NewReader(f, fi.Size())
	r.closer = f
	return r, nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Count is the number of complete records.
func (r *Reader) Count() int64 { return r.count }

// Size is the file size in bytes.
func (r *Reader) Size() int64 { return r.size }

// Trailing is the number of bytes past the last complete record. Non-zero
// means the file was cut short or was not written by this tool.
func (r *Reader) Trailing() int64 { return r.trailing }

// ReadAt decodes record i.
func (r *Reader) ReadAt(i int64) (record.Customer, error) {
	if i < 0 || i >= r.count {
		return record.Customer{}, fmt.Errorf("record %d out of range [0,%d)", i, r.count)
	}
	var buf [record.RecordSize]byte
	if _, err := r.src.ReadAt(buf[:], i*record.RecordSize); err != nil && !errors.Is(err, io.EOF) {
		return record.Customer{}, fmt.Errorf("read record %d: %w", i, err)
	}
	return record.Decode(buf[:])
}

// All calls fn for each complete record in file order, stopping at the first
// error.
func (r *Reader) All(fn func(i int64, c record.Customer) error) error {
	for i := int64(0); i < r.count; i++ {
		c, err := r.ReadAt(i)
		if err != nil {
			return err
		}
		if err := fn(i, c); err != nil {
			return err
		}
	}
	return nil
}
