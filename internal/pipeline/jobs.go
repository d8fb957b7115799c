package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/flacpress/flacpress/internal/naming"
)

// Job is one WAV to FLAC conversion unit. Jobs are immutable once built and
// consumed by exactly one worker.
type Job struct {
	ID               string
	Source           string
	Dest             string
	CompressionLevel int
}

// BuildJobs maps each discovered source to a destination and compression
// level. Two sources claiming the same destination (reachable via
// case-insensitive extension matching, e.g. a.wav and a.WAV) reject the
// whole batch before any job runs.
func BuildJobs(files []string, inputRoot, outputRoot string, level int) ([]Job, error) {
	jobs := make([]Job, 0, len(files))
	owners := make(map[string]string, len(files))
	for _, src := range files {
		dest, err := naming.OutputPath(src, inputRoot, outputRoot)
		if err != nil {
			return nil, fmt.Errorf("cannot map %s: %v", src, err)
		}
		if owner, ok := owners[dest]; ok {
			return nil, fmt.Errorf("destination %s claimed by both %s and %s", dest, owner, src)
		}
		owners[dest] = src
		jobs = append(jobs, Job{
			ID:               uuid.New().String()[:8],
			Source:           src,
			Dest:             dest,
			CompressionLevel: level,
		})
	}
	return jobs, nil
}
