// Package streaming wraps CSV input with the byte-level fixes applied before
// line splitting:
//
//   - CountingReader: tracks raw bytes consumed for progress reporting
//   - SkipBOM: drops a leading UTF-8 byte order mark (0xEF 0xBB 0xBF)
//   - UTF8Sanitizer: replaces invalid UTF-8 bytes with '?'
//
// Use Wrap to apply all three in the right order.
package streaming

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// SkipBOM returns a reader that yields r without a leading UTF-8 BOM.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		_, _ = br.Discard(len(bom))
	}
	return br
}

// UTF8Sanitizer replaces bytes that are not part of a valid UTF-8 sequence
// with '?'. A sequence split across two reads is held back until it is
// complete, so the output never depends on read sizes.
type UTF8Sanitizer struct {
	r   io.Reader
	raw []byte
	out []byte
	err error
	tmp [4096]byte
}

// NewUTF8Sanitizer creates a streaming UTF-8 sanitizer.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{r: r}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		n, err := s.r.Read(s.tmp[:])
		s.raw = append(s.raw, s.tmp[:n]...)
		s.err = err
		s.out = s.sanitize(err != nil)
	}
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// sanitize converts as much of raw as possible. Unless final, an incomplete
// trailing sequence stays in raw for the next call.
func (s *UTF8Sanitizer) sanitize(final bool) []byte {
	out := make([]byte, 0, len(s.raw))
	i := 0
	for i < len(s.raw) {
		c := s.raw[i]
		if c < utf8.RuneSelf {
			out = append(out, c)
			i++
			continue
		}
		if !final && !utf8.FullRune(s.raw[i:]) {
			break
		}
		r, size := utf8.DecodeRune(s.raw[i:])
		if r == utf8.RuneError && size == 1 {
			out = append(out, '?')
			i++
			continue
		}
		out = append(out, s.raw[i:i+size]...)
		i += size
	}
	s.raw = append(s.raw[:0], s.raw[i:]...)
	return out
}

// CountingReader tracks bytes read for progress reporting.
type CountingReader struct {
	r         io.Reader
	bytesRead int64
	// Total is the expected size, or 0 when unknown.
	Total int64
}

// NewCountingReader creates a counting reader with an optional total size.
func NewCountingReader(r io.Reader, total int64) *CountingReader {
	return &CountingReader{r: r, Total: total}
}

// Read implements io.Reader.
func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.bytesRead += int64(n)
	return n, err
}

// BytesRead returns the number of bytes consumed so far.
func (c *CountingReader) BytesRead() int64 { return c.bytesRead }

// Percent returns read progress in [0,100], or 0 if Total is unknown.
func (c *CountingReader) Percent() float64 {
	if c.Total <= 0 {
		return 0
	}
	p := float64(c.bytesRead) * 100 / float64(c.Total)
	if p > 100 {
		p = 100
	}
	return p
}

// Wrap applies byte counting, BOM skipping and UTF-8 sanitizing to r. The
// counter sits closest to the source so progress is measured in file bytes.
func Wrap(r io.Reader, totalSize int64) (io.Reader, *CountingReader) {
	counter := NewCountingReader(r, totalSize)
	return NewUTF8Sanitizer(SkipBOM(counter)), counter
}
