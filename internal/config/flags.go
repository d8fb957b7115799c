package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into conversion, output, display, and utility.
// Override flags (e.g. --force, --use-process) are applied after Parse so
// Config defaults hold unless the user passes the flag.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing positional arg).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("flacpress", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var overrides overrideFlags

	defineConversionFlags(fs, cfg, &overrides)
	defineOutputFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &overrides)
	defineUtilityFlags(fs, &overrides)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyOverrideFlags(cfg, &overrides)

	if overrides.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if overrides.showVersion {
		fmt.Fprintln(os.Stdout, "flacpress v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// overrideFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. force -> SkipExisting=false), select a
// non-default variant (useProcess -> Mode=process), or trigger exit.
type overrideFlags struct {
	useProcess  bool
	force       bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineConversionFlags registers -c/--compression, -t/--threads,
// --use-process, --mode, --ffmpeg.
func defineConversionFlags(fs *flag.FlagSet, cfg *Config, o *overrideFlags) {
	fs.IntVar(&cfg.CompressionLevel, "compression", cfg.CompressionLevel, "FLAC compression level (0-12)")
	fs.IntVar(&cfg.CompressionLevel, "c", cfg.CompressionLevel, "Same as --compression")
	fs.IntVar(&cfg.Workers, "threads", cfg.Workers, "Number of concurrent workers")
	fs.IntVar(&cfg.Workers, "t", cfg.Workers, "Same as --threads")
	fs.BoolVar(&o.useProcess, "use-process", false, "Spawn one external ffmpeg process per job")
	fs.Var(&modeValue{&cfg.Mode}, "mode", "Conversion backend: native | process")
	fs.StringVar(&cfg.FFmpegBin, "ffmpeg", cfg.FFmpegBin, "ffmpeg binary to invoke in process mode")
}

// defineOutputFlags registers -o/--output, --archive-dir, -f/--force, -d/--dry-run.
func defineOutputFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.OutputDir, "output", "", "Mirrored output root (default: convert in place)")
	fs.StringVar(&cfg.OutputDir, "o", "", "Same as --output")
	fs.StringVar(&cfg.ArchiveDir, "archive-dir", cfg.ArchiveDir, "Move converted sources into this directory")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not convert or move files")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log, force.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, o *overrideFlags) {
	fs.BoolVar(&o.force, "force", false, "Overwrite existing .flac outputs")
	fs.BoolVar(&o.force, "f", false, "Same as --force")
	fs.BoolVar(&o.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&o.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, o *overrideFlags) {
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&o.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&o.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&o.showHelp, "h", false, "Same as --help")
}

// applyOverrideFlags copies override flag values into cfg
// (e.g. force -> SkipExisting=false, useProcess -> Mode=process).
func applyOverrideFlags(cfg *Config, o *overrideFlags) {
	if o.useProcess {
		cfg.Mode = ModeProcess
	}
	if o.force {
		cfg.SkipExisting = false
	}
	if o.noColor {
		cfg.ColorMode = ColorNever
	} else if o.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputDir from the single positional arg when not
// in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("need exactly one input directory")
	}
	cfg.InputDir = NormalizeDirArg(args[0])
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "flacpress v" + version + " - parallel WAV to FLAC batch converter"},
		{"", ""},
		{"  flacpress [OPTIONS] <input_dir>", ""},
		{"", ""},
		{"Conversion", ""},
		{"  -c, --compression <0-12>", "FLAC compression level (default: 8)"},
		{"  -t, --threads <n>", "Concurrent workers (default: CPU core count)"},
		{"  --use-process", "One external ffmpeg process per job"},
		{"  --mode <native|process>", "Conversion backend (default: native)"},
		{"  --ffmpeg <path>", "ffmpeg binary for process mode (default: ffmpeg)"},
		{"", ""},
		{"Output & behavior", ""},
		{"  -o, --output <dir>", "Mirrored output root (default: convert in place)"},
		{"  --archive-dir <dir>", "Move converted sources into this directory"},
		{"  -f, --force", "Overwrite existing .flac outputs"},
		{"  -d, --dry-run", "Preview only; do not convert or move files"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  --check", "System diagnostics (ffmpeg, FLAC encoder)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so the Mode enum works with flag.Var.

type modeValue struct{ p *Mode }

func (m *modeValue) String() string {
	if m == nil || m.p == nil {
		return ""
	}
	return string(*m.p)
}

func (m *modeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "native":
		*m.p = ModeNative
	case "process":
		*m.p = ModeProcess
	default:
		return fmt.Errorf("invalid mode %q (use 'native' or 'process')", s)
	}
	return nil
}
