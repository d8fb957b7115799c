// Package config holds runtime configuration: defaults, environment
// overrides, CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// --- Enum types for validated string fields ---

// Mode selects the conversion backend.
type Mode string

const (
	ModeNative  Mode = "native"  // In-process encoding on worker goroutines (default).
	ModeProcess Mode = "process" // One external ffmpeg process per job.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Compression level bounds accepted by the FLAC encoder.
const (
	MinCompressionLevel = 0
	MaxCompressionLevel = 12
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally adjusted by [ApplyEnv], and then mutated by [ParseFlags] before
// being passed (by pointer) to packages that need it.
type Config struct {
	// Paths (set from the positional arg and flags).
	InputDir   string
	OutputDir  string // Empty means convert in place, next to each source.
	ArchiveDir string // Empty disables archiving of converted sources.

	// Conversion settings.
	CompressionLevel int    // Default: 8. Passed to ffmpeg in process mode.
	Workers          int    // Default: CPU core count.
	Mode             Mode   // Default: "native".
	FFmpegBin        string // Default: "ffmpeg". Used in process mode and --check.

	// Behavior flags.
	DryRun       bool
	SkipExisting bool // Default: true. Cleared by --force.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults resolved, including the
// worker count taken from the machine's CPU core count. Used as the base
// before [ApplyEnv] and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		CompressionLevel: 8,
		Workers:          runtime.NumCPU(),
		Mode:             ModeNative,
		FFmpegBin:        "ffmpeg",
		SkipExisting:     true,
		ColorMode:        ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks that the mode enum, compression level, and worker count
// hold valid values. When not in CheckOnly mode, it also requires an input
// directory. All of these fail before any job is built.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeNative, ModeProcess:
		// valid
	default:
		return errors.New("invalid mode (use 'native' or 'process')")
	}

	if c.CompressionLevel < MinCompressionLevel || c.CompressionLevel > MaxCompressionLevel {
		return fmt.Errorf("compression level %d out of range (%d-%d)",
			c.CompressionLevel, MinCompressionLevel, MaxCompressionLevel)
	}
	if c.Workers < 1 {
		return fmt.Errorf("worker count must be at least 1 (got %d)", c.Workers)
	}
	if c.FFmpegBin == "" {
		return errors.New("ffmpeg binary path must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" {
		return errors.New("need exactly one input directory")
	}
	return nil
}

// ValidatePaths ensures a mirrored output root is not inside (or equal to)
// the resolved input directory. This prevents the scanner from discovering
// files the run itself wrote. Both arguments must be absolute,
// symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}
