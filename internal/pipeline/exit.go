package pipeline

const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitPartial = 2
)

// ExitCode maps the outcome of a run to the process exit status: 1 when
// nothing was written or a fatal error occurred, 2 when records were written
// but some failed or were rejected, 0 otherwise.
func ExitCode(s Stats, fatal bool) int {
	if fatal || s.Succeeded == 0 {
		return ExitFailure
	}
	if s.Failed > 0 || s.ValidationErrors > 0 {
		return ExitPartial
	}
	return ExitSuccess
}
