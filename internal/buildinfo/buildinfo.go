// Package buildinfo carries the release stamp that csv2bin prints in
// `csv2bin version` and writes into every conversion summary.
//
// Release builds stamp these variables through -ldflags. Builds made with the
// older script stamp cli.Version and cli.Date instead, so both are read.
package buildinfo

import (
	"strings"

	"github.com/flarebyte/csv2bin/cli"
)

var (
	// Version is the release tag, e.g. "1.4.0".
	Version = "dev"
	// Commit is the git hash the binary was built from.
	Commit = ""
	// Date is when the binary was built.
	Date = ""
	// BuiltBy names the pipeline that produced the binary.
	BuiltBy = ""
)

// Short is the release tag that conversion summaries record.
func Short() string {
	return firstSet(Version, cli.Version, "dev")
}

// Summary is Short plus an abbreviated commit and the build date, e.g.
// "1.4.0 (commit=abcdef1, date=2026-02-09)".
func Summary() string {
	v := Short()
	var parts []string
	if Commit != "" {
		c := Commit
		if len(c) > 7 {
			c = c[:7]
		}
		parts = append(parts, "commit="+c)
	}
	if d := firstSet(Date, cli.Date); d != "" {
		parts = append(parts, "date="+d)
	}
	if len(parts) > 0 {
		v += " (" + strings.Join(parts, ", ") + ")"
	}
	return v
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
