package encoder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/pkg/errors"
)

// FFmpeg encodes by spawning one external ffmpeg process per job, the
// process-pool mode of the CLI. Bin is the ffmpeg executable name or path.
type FFmpeg struct {
	Bin string
}

// Name implements [Encoder].
func (FFmpeg) Name() string { return "ffmpeg" }

// Args returns the ffmpeg argument list for one conversion. The destination
// is overwritten with -y; skip-existing policy is enforced by the pipeline
// before the job is dispatched.
func (FFmpeg) Args(src, dest string, level int) []string {
	return []string{
		"-hide_banner", "-nostdin",
		"-i", src,
		"-compression_level", strconv.Itoa(level),
		"-c:a", "flac",
		"-y",
		"-loglevel", "error",
		dest,
	}
}

// Encode runs ffmpeg under ctx, capturing stderr for failure reporting.
// An empty or missing destination after a zero exit still counts as a
// failure, matching how a crashed encoder can leave a truncated file.
func (f FFmpeg) Encode(ctx context.Context, src, dest string, level int) error {
	cmd := exec.CommandContext(ctx, f.Bin, f.Args(src, dest, level)...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		os.Remove(dest)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return failure(err, stderrBuf.String())
	}

	fi, err := os.Stat(dest)
	if err != nil || fi.Size() == 0 {
		os.Remove(dest)
		return errors.New("encoder produced no output")
	}
	return nil
}

// failure turns an ffmpeg exit error plus its stderr into a single
// user-facing error: a classified reason when the output matches a known
// pattern, otherwise the tail of the raw output.
func failure(err error, stderr string) error {
	reason := ClassifyStderr(stderr)
	tail := StderrTail(stderr, 3)
	switch {
	case reason != "" && tail != "":
		return fmt.Errorf("%s: %s", reason, tail)
	case reason != "":
		return errors.New(reason)
	case tail != "":
		return fmt.Errorf("ffmpeg failed: %s", tail)
	}
	return errors.Wrap(err, "ffmpeg failed")
}
