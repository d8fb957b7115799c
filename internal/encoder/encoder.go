// Package encoder converts single WAV files to FLAC. Two variants exist:
// an in-process pure-Go encoder run on worker goroutines, and an external
// ffmpeg process spawned per job. The pipeline picks one per run and calls
// it from every worker.
package encoder

import (
	"context"

	"github.com/flacpress/flacpress/internal/config"
)

// Encoder converts one source WAV file into a FLAC file at dest.
// Implementations must be safe for concurrent use; the pipeline calls
// Encode from multiple workers at once. On failure the destination must
// not be left behind as a partial file.
type Encoder interface {
	Encode(ctx context.Context, src, dest string, level int) error

	// Name reports the backend label used in logs and diagnostics.
	Name() string
}

// ForMode returns the encoder variant selected by cfg.
func ForMode(cfg *config.Config) Encoder {
	if cfg.Mode == config.ModeProcess {
		return FFmpeg{Bin: cfg.FFmpegBin}
	}
	return Native{}
}
