// Package term owns the ANSI color state for flacpress output.
//
// The palette is exposed as plain string variables so callers can splice
// codes directly into formatted lines. When colors are off every variable is
// the empty string and output stays clean for pipes and log files.
package term

import (
	"os"
	"strings"

	"github.com/flacpress/flacpress/internal/config"
)

// Escape sequences for the bright ANSI palette.
const (
	escRed     = "\033[1;91m"
	escGreen   = "\033[1;92m"
	escYellow  = "\033[1;93m"
	escBlue    = "\033[1;94m"
	escMagenta = "\033[1;95m"
	escCyan    = "\033[1;96m"
	escReset   = "\033[0m"
)

// Active palette. Empty until [Configure] turns colors on.
var (
	Red     string
	Green   string
	Yellow  string
	Blue    string
	Cyan    string
	Magenta string
	NC      string
)

// Configure resolves mode against the environment and sets the palette.
// Called once from logging.NewLogger before the first output line.
func Configure(mode config.ColorMode) {
	switch mode {
	case config.ColorAlways:
		setPalette(true)
	case config.ColorNever:
		setPalette(false)
	default:
		setPalette(IsTerminal(os.Stdout) && !colorVetoed())
	}
}

// Enabled reports whether the palette is currently active.
func Enabled() bool { return NC != "" }

func setPalette(on bool) {
	if !on {
		Red, Green, Yellow, Blue, Cyan, Magenta, NC = "", "", "", "", "", "", ""
		return
	}
	Red, Green, Yellow = escRed, escGreen, escYellow
	Blue, Cyan, Magenta = escBlue, escCyan, escMagenta
	NC = escReset
}

// colorVetoed honors NO_COLOR (https://no-color.org) and dumb terminals.
func colorVetoed() bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	return strings.EqualFold(os.Getenv("TERM"), "dumb")
}

// IsTerminal reports whether f is attached to a character device.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
