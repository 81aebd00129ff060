package validate

import "github.com/flarebyte/csv2bin/internal/record"

// Violations names each failed check for one record.
type Violations struct {
	InvalidID    bool
	InvalidEmail bool
	InvalidPhone bool
	InvalidDate  bool
	InvalidState bool
	InvalidZip   bool
	EmptyField   bool
	FieldTooLong bool
}

// Any reports whether at least one flag is set.
func (v Violations) Any() bool {
	return v != Violations{}
}

// Messages returns one line per set flag, in a fixed order.
func (v Violations) Messages() []string {
	var out []string
	add := func(set bool, msg string) {
		if set {
			out = append(out, msg)
		}
	}
	add(v.InvalidID, "Invalid customer ID format")
	add(v.InvalidEmail, "Invalid email format")
	add(v.InvalidPhone, "Invalid phone format")
	add(v.InvalidDate, "Invalid date format")
	add(v.InvalidState, "Invalid state code")
	add(v.InvalidZip, "Invalid zip code")
	add(v.EmptyField, "Empty required field")
	add(v.FieldTooLong, "Field exceeds maximum length")
	return out
}

// Verdict is the outcome of Check.
type Verdict struct {
	Violations Violations
	Accepted   bool
	// Warnings counts optional checks that failed without rejecting.
	Warnings int
}

// Check applies r to c. A bad id, or an empty name when empty fields are not
// allowed, always rejects. Optional checks run only for non-empty values and
// reject only in strict mode.
func Check(c record.Customer, r Rules) Verdict {
	v := Verdict{Accepted: true}
	if !ID(c.ID) {
		v.Violations.InvalidID = true
		v.Accepted = false
	}
	if !r.AllowEmptyFields && (c.FirstName.Empty() || c.LastName.Empty()) {
		v.Violations.EmptyField = true
		v.Accepted = false
	}

	optional := func(enabled bool, value record.Text, check func(string, bool) bool, flag *bool) {
		if !enabled || value.Empty() {
			return
		}
		if check(value.String(), r.AllowEmptyFields) {
			return
		}
		*flag = true
		if r.StrictMode {
			v.Accepted = false
		} else {
			v.Warnings++
		}
	}
	optional(r.ValidateEmail, c.Email, Email, &v.Violations.InvalidEmail)
	optional(r.ValidatePhone, c.Phone, Phone, &v.Violations.InvalidPhone)
	optional(r.ValidateDate, c.RegistrationDate, Date, &v.Violations.InvalidDate)
	optional(r.ValidateState, c.State, State, &v.Violations.InvalidState)
	optional(r.ValidateZip, c.ZipCode, Zip, &v.Violations.InvalidZip)
	return v
}
