package pipeline

import (
	"errors"
	"strings"

	"github.com/flarebyte/csv2bin/internal/binfile"
	"github.com/flarebyte/csv2bin/internal/csvline"
	"github.com/flarebyte/csv2bin/internal/record"
)

// Error kinds raised during a conversion. Match them with errors.Is.
var (
	// ErrMalformedRecord: a line did not split into the expected fields.
	ErrMalformedRecord = csvline.ErrMalformedRecord
	// ErrInvalidID: customer_id is not a 32-bit integer.
	ErrInvalidID = record.ErrInvalidID
	// ErrValidationRejected: the record failed a rejecting check.
	ErrValidationRejected = errors.New("validation rejected")
	// ErrWriteFailure: the output could not be written. Fatal.
	ErrWriteFailure = binfile.ErrWriteFailure
	// ErrResourceUnavailable: an input or output file could not be opened,
	// read or closed. Fatal.
	ErrResourceUnavailable = errors.New("resource unavailable")
)

// Fatal reports whether err aborts a conversion.
func Fatal(err error) bool {
	return errors.Is(err, ErrWriteFailure) || errors.Is(err, ErrResourceUnavailable)
}

// reason renders err as a single log-friendly line.
func reason(err error) string {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if msg == "" {
		return "error"
	}
	return msg
}
