package display

import (
	"fmt"
	"os"

	"github.com/flacpress/flacpress/internal/term"
)

// PrintBanner prints the startup banner. The ASCII art only appears on a
// color-capable terminal; piped output and log files get a plain title line.
func PrintBanner() {
	if !term.Enabled() {
		fmt.Fprintln(os.Stdout, "flacpress")
		return
	}
	fmt.Fprint(os.Stdout, term.Magenta)
	fmt.Fprint(os.Stdout, `  __ _
 / _| | __ _  ___ _ __  _ __ ___  ___ ___
| |_| |/ _`+"`"+` |/ __| '_ \| '__/ _ \/ __/ __|
|  _| | (_| | (__| |_) | | |  __/\__ \__ \
|_| |_|\__,_|\___| .__/|_|  \___||___/___/
                 |_|
`)
	fmt.Fprintln(os.Stdout, term.NC)
}
