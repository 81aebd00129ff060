package csvline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRecord is returned when a line does not split into the expected
// number of fields.
var ErrMalformedRecord = errors.New("malformed record")

// Tokenize splits line into exactly n trimmed fields.
//
// A field starting with a double quote runs to the next lone quote, with ""
// read as a literal quote. Anything after the closing quote that is not a
// comma starts the next field. An unterminated quoted field runs to the end of
// the line. Unquoted fields run to the next comma. A comma that ends the line
// closes the last field and does not start an empty one.
func Tokenize(line string, n int) ([]string, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := make([]string, 0, n)
	i := 0
	for {
		if len(fields) == n {
			return nil, fmt.Errorf("%w: more than %d fields", ErrMalformedRecord, n)
		}
		var field string
		field, i = next(line, i)
		fields = append(fields, Trim(field))
		if i >= len(line) {
			break
		}
		if line[i] == ',' {
			i++
			if i == len(line) {
				break
			}
		}
	}
	if len(fields) != n {
		return nil, fmt.Errorf("%w: expected %d fields, found %d", ErrMalformedRecord, n, len(fields))
	}
	return fields, nil
}

// next reads one raw field starting at i and returns it with the index where
// reading stopped: a comma, the byte after a closing quote, or len(line).
func next(line string, i int) (string, int) {
	if i >= len(line) || line[i] != '"' {
		j := strings.IndexByte(line[i:], ',')
		if j < 0 {
			return line[i:], len(line)
		}
		return line[i : i+j], i + j
	}
	var b strings.Builder
	i++
	for i < len(line) {
		c := line[i]
		if c == '"' {
			if i+1 < len(line) && line[i+1] == '"' {
				b.WriteByte('"')
				i += 2
				continue
			}
			return b.String(), i + 1
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), i
}
