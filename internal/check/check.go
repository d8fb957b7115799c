// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation for the external ffmpeg encoder.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/flacpress/flacpress/internal/config"
)

// Sentinel errors returned by CheckDeps when the external encoder is unusable.
var (
	ErrFfmpegNotFound   = errors.New("ffmpeg not found on PATH")
	ErrFlacEncodeFailed = errors.New("ffmpeg found but FLAC test encode failed")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: the native encoder is always
// available, then ffmpeg presence and a minimal FLAC encode are tested.
// Returns false only when the configured mode cannot work.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")
	log.Success("native encoder: built in (pure Go)")

	ok := checkFfmpeg(cfg, log)
	if ok {
		ok = checkFlacEncode(cfg, log)
	}
	if !ok && cfg.Mode != config.ModeProcess {
		log.Warn("ffmpeg unavailable; only native mode will work")
		return true
	}
	return ok
}

// checkFfmpeg verifies ffmpeg is on PATH and logs its version string.
func checkFfmpeg(cfg *config.Config, log Logger) bool {
	if _, err := exec.LookPath(cfg.FFmpegBin); err != nil {
		log.Error("%s not found", cfg.FFmpegBin)
		return false
	}
	cmd := exec.Command(cfg.FFmpegBin, "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", cfg.FFmpegBin, err)
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("ffmpeg: %s", firstLine)
	return true
}

// checkFlacEncode runs a minimal FLAC encode to verify the codec works.
func checkFlacEncode(cfg *config.Config, log Logger) bool {
	log.Info("Testing FLAC encoder...")
	if runSilent(cfg.FFmpegBin, flacTestArgs()...) {
		log.Success("FLAC encoder works")
		return true
	}
	log.Error("FLAC test encode failed")
	return false
}

// CheckDeps is the pre-run validation: in process mode, ffmpeg must be on
// PATH and able to encode FLAC. Native mode needs no external tools.
// Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if cfg.Mode != config.ModeProcess {
		return nil
	}
	if _, err := exec.LookPath(cfg.FFmpegBin); err != nil {
		return ErrFfmpegNotFound
	}
	if !runSilent(cfg.FFmpegBin, flacTestArgs()...) {
		return ErrFlacEncodeFailed
	}
	return nil
}

// --- internal helpers ---

// flacTestArgs returns the ffmpeg arguments for a minimal FLAC test encode
// from a generated sine source. Shared by checkFlacEncode and CheckDeps to
// avoid duplicating the argument list.
func flacTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "flac",
		"-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
