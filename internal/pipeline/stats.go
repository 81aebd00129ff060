package pipeline

import "time"

// Stats counts what happened during one conversion.
type Stats struct {
	// TotalLines counts every line read, including headers and blanks.
	TotalLines int64
	// Processed counts data lines, including those skipped on resume.
	Processed int64
	// Succeeded counts records written by this run.
	Succeeded int64
	Failed    int64

	ValidationWarnings int64
	ValidationErrors   int64

	// Skipped counts data lines passed over on resume until the checkpointed
	// number of records would have been written.
	Skipped int64
	// Filtered counts records dropped by the record filter.
	Filtered int64

	BytesWritten int64
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Elapsed is the wall time between start and finish.
func (s Stats) Elapsed() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// SuccessRate is Succeeded as a percentage of Processed.
func (s Stats) SuccessRate() float64 {
	if s.Processed == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Processed) * 100
}

// Rate is records written per second.
func (s Stats) Rate() float64 {
	secs := s.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.Succeeded) / secs
}
