package pipeline

// JobFailure records one failed conversion for the end-of-run report.
type JobFailure struct {
	Path   string
	Reason string
}

// RunStats tracks aggregate counters and byte totals across a batch run.
// Byte totals only cover converted files, so the space-saved figure is not
// skewed by skips and failures.
type RunStats struct {
	Total            int
	Converted        int
	Skipped          int
	Failed           int
	TotalInputBytes  int64
	TotalOutputBytes int64
	Failures         []JobFailure
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller; negative means they grew.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}
