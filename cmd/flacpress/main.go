// Command flacpress is the CLI entrypoint for the parallel WAV to FLAC
// batch converter.
//
// It builds configuration from defaults, environment, and flags, and either
// runs system diagnostics (--check) or the conversion pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/flacpress/flacpress/internal/check"
	"github.com/flacpress/flacpress/internal/config"
	"github.com/flacpress/flacpress/internal/display"
	"github.com/flacpress/flacpress/internal/encoder"
	"github.com/flacpress/flacpress/internal/logging"
	"github.com/flacpress/flacpress/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build", these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ApplyEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "flacpress: %v\n", err)
		return 1
	}
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "flacpress: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "flacpress: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flacpress: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available. All output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// Resolve and validate paths: input must exist and be a directory, a
	// mirrored output root is created if needed and must not sit inside the
	// input tree (prevents the scanner from finding the run's own output).
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		log.Error("Input not found: %s", cfg.InputDir)
		return 1
	}
	fi, err := os.Stat(inputAbs)
	if err != nil || !fi.IsDir() {
		log.Error("Input is not a directory: %s", cfg.InputDir)
		return 1
	}
	cfg.InputDir = inputAbs

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			log.Error("Cannot create output directory: %s", cfg.OutputDir)
			return 1
		}
		outputAbs, err := absPath(cfg.OutputDir)
		if err != nil {
			log.Error("Cannot resolve output path: %s", cfg.OutputDir)
			return 1
		}
		if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
			log.Error("%v", err)
			log.Error("Choose an output path outside: %s", cfg.InputDir)
			return 1
		}
		cfg.OutputDir = outputAbs
	}

	log.Info("=== flacpress v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.InputDir)
	if cfg.OutputDir != "" {
		log.Info("Out: %s", cfg.OutputDir)
	} else {
		log.Info("Out: in place (.flac next to each source)")
	}
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}
	log.Info("")

	// Fail fast if process mode was selected but ffmpeg is unusable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling. Cancel the context on SIGINT/SIGTERM so the
	// pool stops dispatching and in-flight external encoders are killed.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing in-flight conversions")
		cancel()
	}()

	// Phase 4: Run the pipeline (discover, build jobs, dispatch, summary).
	stats := pipeline.Run(ctx, &cfg, encoder.ForMode(&cfg), log)

	if stats.Failed > 0 {
		return 1
	}
	return 0
}

// absPath returns the absolute path with symlinks resolved, for safe
// comparison of input vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
