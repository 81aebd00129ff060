package record

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrInvalidID is returned when customer_id is not a base-10 int32.
	ErrInvalidID = errors.New("invalid customer id")
	// ErrFieldCount is returned when Build gets the wrong number of tokens.
	ErrFieldCount = errors.New("wrong number of fields")
)

// Built is the result of coercing one row of tokens.
type Built struct {
	Customer Customer
	// Truncated names the text fields that were cut to fit their slot.
	Truncated []string
}

// Build coerces already-trimmed tokens into a Customer. Over-long text is
// truncated and reported in Built.Truncated rather than rejected.
func Build(tokens []string) (Built, error) {
	if len(tokens) != FieldCount {
		return Built{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(tokens), FieldCount)
	}
	id, err := ParseID(tokens[0])
	if err != nil {
		return Built{}, err
	}
	out := Built{Customer: Customer{ID: id}}
	for i, s := range slots {
		t, cut := Bound(tokens[i+1], s.max)
		*s.get(&out.Customer) = t
		if cut {
			out.Truncated = append(out.Truncated, s.name)
		}
	}
	return out, nil
}

// ParseID parses a whole token as a signed 32-bit decimal.
func ParseID(tok string) (int32, error) {
	if tok == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidID)
	}
	n, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, tok)
	}
	return int32(n), nil
}

// MaxLen returns the slot limit for a text field name, or 0 if unknown.
func MaxLen(field string) int {
	for _, s := range slots {
		if s.name == field {
			return s.max
		}
	}
	return 0
}
