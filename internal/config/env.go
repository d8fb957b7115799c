package config

// Environment overrides sit between DefaultConfig and CLI flags in
// precedence. A .env file in the working directory is honored when present.

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables recognized by ApplyEnv.
const (
	EnvCompression = "FLACPRESS_COMPRESSION"
	EnvThreads     = "FLACPRESS_THREADS"
	EnvFFmpeg      = "FLACPRESS_FFMPEG"
	EnvArchiveDir  = "FLACPRESS_ARCHIVE_DIR"
)

// ApplyEnv loads a .env file if one exists and applies FLACPRESS_* variables
// to cfg. Malformed numeric values are reported rather than ignored, so a
// bad .env does not silently fall back to defaults. Range checks happen
// later in [Config.Validate].
func ApplyEnv(cfg *Config) error {
	// A missing .env file is fine; variables may be set in the environment.
	_ = godotenv.Load()

	if v := os.Getenv(EnvCompression); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a whole number", EnvCompression, v)
		}
		cfg.CompressionLevel = n
	}
	if v := os.Getenv(EnvThreads); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a whole number", EnvThreads, v)
		}
		cfg.Workers = n
	}
	if v := os.Getenv(EnvFFmpeg); v != "" {
		cfg.FFmpegBin = v
	}
	if v := os.Getenv(EnvArchiveDir); v != "" {
		cfg.ArchiveDir = v
	}
	return nil
}
