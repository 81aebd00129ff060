package cli

// Version and Date can be stamped by release scripts, e.g.:
//
//	-ldflags "-X 'github.com/flarebyte/csv2bin/cli.Version=1.2.3' -X 'github.com/flarebyte/csv2bin/cli.Date=2026-02-09'"
var (
	Version string
	Date    string
)
