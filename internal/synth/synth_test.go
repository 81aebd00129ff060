package synth

import (
	"bytes"
	"strings"
	"testing"

	"github.com/flarebyte/csv2bin/internal/csvline"
	"github.com/flarebyte/csv2bin/internal/record"
	"github.com/flarebyte/csv2bin/internal/validate"
)

func TestWrite_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	opts := Options{Count: 50, Seed: 42, InvalidRate: 0.2}
	if _, err := Write(&a, opts); err != nil {
		t.Fatal(err)
	}
	if _, err := Write(&b, opts); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("same seed produced different output")
	}
}

func TestWrite_ValidRowsPassStrictChecks(t *testing.T) {
	var buf bytes.Buffer
	st, err := Write(&buf, Options{Count: 200, Seed: 7, StartID: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if st.Rows != 200 || st.Invalid != 0 {
		t.Fatalf("stats: %+v", st)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 201 || !csvline.IsHeader(lines[0]) {
		t.Fatalf("got %d lines, header %q", len(lines), lines[0])
	}
	for i, line := range lines[1:] {
		tokens, err := csvline.Tokenize(line, record.FieldCount)
		if err != nil {
			t.Fatalf("line %d: %v", i+2, err)
		}
		built, err := record.Build(tokens)
		if err != nil {
			t.Fatalf("line %d: %v", i+2, err)
		}
		if built.Customer.ID != int32(1000+i) {
			t.Fatalf("line %d: id %d", i+2, built.Customer.ID)
		}
		if v := validate.Check(built.Customer, validate.DefaultRules()); !v.Accepted || v.Violations.Any() {
			t.Fatalf("line %d rejected: %v (%q)", i+2, v.Violations.Messages(), line)
		}
	}
}

func TestWrite_InvalidRate(t *testing.T) {
	var buf bytes.Buffer
	st, err := Write(&buf, Options{Count: 100, Seed: 3, InvalidRate: 1})
	if err != nil {
		t.Fatal(err)
	}
	if st.Invalid != 100 {
		t.Fatalf("invalid: %d", st.Invalid)
	}
}

func TestWrite_BadOptions(t *testing.T) {
	if _, err := Write(&bytes.Buffer{}, Options{Count: 1, InvalidRate: 2}); err == nil {
		t.Fatalf("expected error for rate > 1")
	}
	if _, err := Write(&bytes.Buffer{}, Options{Count: -1}); err == nil {
		t.Fatalf("expected error for negative count")
	}
}
