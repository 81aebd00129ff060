// Package report renders the outcome of a conversion: a console summary, a
// persisted text report, a canonical YAML artifact and the error log.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flarebyte/csv2bin/internal/pipeline"
	"github.com/flarebyte/csv2bin/internal/provenance"
	"github.com/flarebyte/csv2bin/internal/record"
)

const rule = "================================================================================"

// Summary is everything the reports show about one run.
type Summary struct {
	Version      string
	ErrorLogPath string
	Result       pipeline.Result
	// Provenance is the git history of the input, when known.
	Provenance *provenance.Info
}

// Status is the one-line verdict printed at the bottom of every report.
func (s Summary) Status() string {
	st := s.Result.Stats
	switch {
	case st.Succeeded == 0:
		return "FAILED - No records converted"
	case st.Failed == 0 && s.Result.Err == nil:
		return "COMPLETED SUCCESSFULLY"
	default:
		return "COMPLETED WITH ERRORS"
	}
}

func (s Summary) errorLogName() string {
	if s.ErrorLogPath == "" {
		return "conversion_errors.log"
	}
	return s.ErrorLogPath
}

// WriteConsole prints the end-of-run summary.
func WriteConsole(w io.Writer, s Summary) error {
	st := s.Result.Stats
	var b strings.Builder
	b.WriteString("\n\n" + rule + "\n")
	b.WriteString("                     CONVERSION SUMMARY REPORT\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "Input File:              %s\n", s.Result.InputPath)
	fmt.Fprintf(&b, "Output File:             %s\n\n", s.Result.OutputPath)

	b.WriteString("--- Processing Statistics ---\n")
	fmt.Fprintf(&b, "Total lines read:        %d\n", st.TotalLines)
	fmt.Fprintf(&b, "Records processed:       %d\n", st.Processed)
	if st.Skipped > 0 {
		fmt.Fprintf(&b, "Skipped (resumed):       %d\n", st.Skipped)
	}
	if st.Filtered > 0 {
		fmt.Fprintf(&b, "Filtered out:            %d\n", st.Filtered)
	}
	fmt.Fprintf(&b, "Successfully converted:  %d\n", st.Succeeded)
	fmt.Fprintf(&b, "Failed records:          %d\n", st.Failed)
	fmt.Fprintf(&b, "Success rate:            %.2f%%\n\n", st.SuccessRate())

	b.WriteString("--- Validation Statistics ---\n")
	fmt.Fprintf(&b, "Validation errors:       %d\n", st.ValidationErrors)
	fmt.Fprintf(&b, "Validation warnings:     %d\n\n", st.ValidationWarnings)

	b.WriteString("--- Performance Metrics ---\n")
	fmt.Fprintf(&b, "Elapsed time:            %.2f seconds\n", st.Elapsed().Seconds())
	fmt.Fprintf(&b, "Processing rate:         %.0f records/second\n", st.Rate())
	fmt.Fprintf(&b, "Record size:             %d bytes\n", record.RecordSize)
	fmt.Fprintf(&b, "Total bytes written:     %d bytes (%.2f MB)\n\n", st.BytesWritten, float64(st.BytesWritten)/1048576.0)

	if st.Failed > 0 || st.ValidationErrors > 0 || s.Result.Err != nil {
		b.WriteString("*** WARNINGS ***\n")
		if s.Result.Err != nil {
			fmt.Fprintf(&b, "  Conversion aborted: %v\n", s.Result.Err)
		}
		if st.Failed > 0 {
			fmt.Fprintf(&b, "  %d records failed conversion\n", st.Failed)
		}
		if st.ValidationErrors > 0 {
			fmt.Fprintf(&b, "  %d validation errors detected\n", st.ValidationErrors)
		}
		fmt.Fprintf(&b, "  Check %s for details\n\n", s.errorLogName())
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Status: %s\n", s.Status())
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Text renders the persisted report.
func Text(s Summary) string {
	st := s.Result.Stats
	r := s.Result.Rules
	var b strings.Builder
	b.WriteString("Customer Data Conversion Summary Report\n")
	fmt.Fprintf(&b, "Generated: %s\n", st.FinishedAt.Format(time.ANSIC))
	if s.Version != "" {
		fmt.Fprintf(&b, "Version: %s\n", s.Version)
	}
	fmt.Fprintf(&b, "Run ID: %s\n", s.Result.RunID)
	b.WriteString("========================================\n\n")

	fmt.Fprintf(&b, "Input File:  %s\n", s.Result.InputPath)
	fmt.Fprintf(&b, "Output File: %s\n\n", s.Result.OutputPath)

	b.WriteString("Processing Statistics:\n")
	fmt.Fprintf(&b, "  Total lines read:       %d\n", st.TotalLines)
	fmt.Fprintf(&b, "  Records processed:      %d\n", st.Processed)
	fmt.Fprintf(&b, "  Skipped (resumed):      %d\n", st.Skipped)
	fmt.Fprintf(&b, "  Filtered out:           %d\n", st.Filtered)
	fmt.Fprintf(&b, "  Successfully converted: %d\n", st.Succeeded)
	fmt.Fprintf(&b, "  Failed records:         %d\n", st.Failed)
	fmt.Fprintf(&b, "  Success rate:           %.2f%%\n\n", st.SuccessRate())

	b.WriteString("Validation Statistics:\n")
	fmt.Fprintf(&b, "  Validation errors:      %d\n", st.ValidationErrors)
	fmt.Fprintf(&b, "  Validation warnings:    %d\n\n", st.ValidationWarnings)

	b.WriteString("Performance Metrics:\n")
	fmt.Fprintf(&b, "  Elapsed time:           %.2f seconds\n", st.Elapsed().Seconds())
	fmt.Fprintf(&b, "  Processing rate:        %.0f records/second\n", st.Rate())
	fmt.Fprintf(&b, "  Total bytes written:    %d bytes\n\n", st.BytesWritten)

	b.WriteString("Configuration:\n")
	fmt.Fprintf(&b, "  Email validation:       %s\n", enabled(r.ValidateEmail))
	fmt.Fprintf(&b, "  Phone validation:       %s\n", enabled(r.ValidatePhone))
	fmt.Fprintf(&b, "  Date validation:        %s\n", enabled(r.ValidateDate))
	fmt.Fprintf(&b, "  State validation:       %s\n", enabled(r.ValidateState))
	fmt.Fprintf(&b, "  Zip validation:         %s\n", enabled(r.ValidateZip))
	fmt.Fprintf(&b, "  Allow empty fields:     %s\n", enabled(r.AllowEmptyFields))
	fmt.Fprintf(&b, "  Strict mode:            %s\n\n", enabled(r.StrictMode))

	fmt.Fprintf(&b, "Status: %s\n", s.Status())
	return b.String()
}

// WriteText saves Text(s) to path, creating parent directories.
func WriteText(path string, s Summary) error {
	return writeFile(path, []byte(Text(s)))
}

func enabled(on bool) string {
	if on {
		return "Enabled"
	}
	return "Disabled"
}

func writeFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
