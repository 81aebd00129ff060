package validate

import (
	"reflect"
	"testing"

	"github.com/flarebyte/csv2bin/internal/record"
)

func customer(t *testing.T, tokens ...string) record.Customer {
	t.Helper()
	b, err := record.Build(tokens)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return b.Customer
}

func TestCheck_Accepts(t *testing.T) {
	c := customer(t, "1", "John", "Doe", "john@x.com", "555-123-4567", "Austin", "TX", "78701", "2023-05-01")
	v := Check(c, DefaultRules())
	if !v.Accepted || v.Violations.Any() || v.Warnings != 0 {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestCheck_StrictRejectsBadEmail(t *testing.T) {
	c := customer(t, "1", "John", "Doe", "not-an-email", "555-123-4567", "Austin", "TX", "78701", "2023-05-01")
	v := Check(c, DefaultRules())
	if v.Accepted || !v.Violations.InvalidEmail {
		t.Fatalf("expected strict rejection, got %+v", v)
	}
	if v.Warnings != 0 {
		t.Fatalf("strict failure must not count as warning")
	}
}

func TestCheck_LenientWarnsBadEmail(t *testing.T) {
	r := DefaultRules()
	r.StrictMode = false
	c := customer(t, "1", "John", "Doe", "not-an-email", "555-123-4567", "Austin", "TX", "78701", "2023-05-01")
	v := Check(c, r)
	if !v.Accepted || v.Warnings != 1 || !v.Violations.InvalidEmail {
		t.Fatalf("expected accepted with one warning, got %+v", v)
	}
}

func TestCheck_IDAndNamesRejectInAnyMode(t *testing.T) {
	for _, strict := range []bool{true, false} {
		r := DefaultRules()
		r.StrictMode = strict
		v := Check(customer(t, "0", "", "Doe", "", "", "", "", "", ""), r)
		if v.Accepted {
			t.Fatalf("strict=%v: expected rejection", strict)
		}
		if !v.Violations.InvalidID || !v.Violations.EmptyField {
			t.Fatalf("strict=%v: flags %+v", strict, v.Violations)
		}
	}
}

func TestCheck_AllowEmptySkipsNameCheck(t *testing.T) {
	r := DefaultRules()
	r.AllowEmptyFields = true
	v := Check(customer(t, "3", "", "", "", "", "", "", "", ""), r)
	if !v.Accepted || v.Violations.Any() {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestCheck_DisabledToggleSkipsCheck(t *testing.T) {
	r := DefaultRules()
	r.ValidatePhone = false
	v := Check(customer(t, "1", "A", "B", "", "garbage", "", "", "", ""), r)
	if !v.Accepted || v.Violations.InvalidPhone {
		t.Fatalf("phone checked while disabled: %+v", v)
	}
}

func TestViolations_Messages(t *testing.T) {
	v := Violations{InvalidEmail: true, InvalidZip: true, FieldTooLong: true}
	want := []string{"Invalid email format", "Invalid zip code", "Field exceeds maximum length"}
	if got := v.Messages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRules_Set(t *testing.T) {
	r := DefaultRules()
	if !r.Set("strict_mode", false) || r.StrictMode {
		t.Fatalf("strict_mode not applied")
	}
	if r.Set("nope", true) {
		t.Fatalf("unknown key accepted")
	}
}
