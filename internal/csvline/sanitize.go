// Package csvline splits one customer CSV line into trimmed fields.
package csvline

import (
	"strings"
	"unicode"
)

// HeaderToken marks the optional header row.
const HeaderToken = "customer_id"

// Sanitize replaces control bytes below 0x20 with a space. Tab, CR and LF are
// kept.
func Sanitize(line string) string {
	idx := strings.IndexFunc(line, isScrubbed)
	if idx < 0 {
		return line
	}
	b := []byte(line)
	for i := idx; i < len(b); i++ {
		if b[i] < 0x20 && b[i] != '\t' && b[i] != '\n' && b[i] != '\r' {
			b[i] = ' '
		}
	}
	return string(b)
}

func isScrubbed(r rune) bool {
	return r < 0x20 && r != '\t' && r != '\n' && r != '\r'
}

// Trim strips leading and trailing ASCII whitespace.
func Trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// Printable drops everything that is neither printable nor a space. Used to
// echo offending lines into the error log.
func Printable(line string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || unicode.IsPrint(r) {
			return r
		}
		return -1
	}, line)
}

// IsBlank reports whether line holds only whitespace.
func IsBlank(line string) bool {
	return Trim(line) == ""
}

// IsHeader reports whether line looks like the column header row.
func IsHeader(line string) bool {
	return strings.Contains(line, HeaderToken)
}
