package record

import "unicode/utf8"

// Text is a string known to fit its slot. Values are produced by Bound so the
// length limit is enforced at construction.
type Text struct {
	s string
}

// Bound returns s cut to at most max bytes, backing off to a rune boundary.
// truncated reports whether anything was dropped.
func Bound(s string, max int) (t Text, truncated bool) {
	if len(s) <= max {
		return Text{s: s}, false
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return Text{s: s[:cut]}, true
}

func (t Text) String() string { return t.s }

// Len is the stored length in bytes.
func (t Text) Len() int { return len(t.s) }

func (t Text) Empty() bool { return t.s == "" }
