package encoder

import (
	"regexp"
	"strings"
)

// Pre-compiled regexes for classifying ffmpeg stderr output into failure
// reasons a user can act on without reading raw encoder output. Checked in
// order by [ClassifyStderr]; the first match wins.
var (
	rePermission = regexp.MustCompile(`(?i)Permission denied`)

	reInvalidData = regexp.MustCompile(
		`(?i)Invalid data found when processing input|` +
			`Failed to read RIFF header|` +
			`EOF while reading`)

	reMissingInput = regexp.MustCompile(
		`(?i)No such file or directory|could not open`)

	reNoFlacEncoder = regexp.MustCompile(
		`(?i)Unknown encoder|Encoder not found`)
)

// ClassifyStderr maps known ffmpeg failure output to a short reason.
// Returns "" when the output matches no known pattern.
func ClassifyStderr(stderr string) string {
	switch {
	case rePermission.MatchString(stderr):
		return "destination not writable"
	case reInvalidData.MatchString(stderr):
		return "source is not valid WAV data"
	case reMissingInput.MatchString(stderr):
		return "source file missing or unreadable"
	case reNoFlacEncoder.MatchString(stderr):
		return "ffmpeg build lacks the FLAC encoder"
	}
	return ""
}

// StderrTail returns the last n non-empty lines of encoder output, joined
// with "; ", for compact per-job diagnostics.
func StderrTail(stderr string, n int) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	var kept []string
	for _, l := range lines {
		if s := strings.TrimSpace(l); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, "; ")
}
