package ui

import (
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// ASCII logo for the application
const ASCIILogo = `
   ┌─────────────────────────────────────────────┐
   │   ██████╗ █████╗ ███╗   ███╗███████╗███████╗████████╗
   │  ██╔════╝██╔══██╗████╗ ████║██╔════╝██╔════╝╚══██╔══╝
   │  ██║     ███████║██╔████╔██║███████╗█████╗     ██║
   │  ██║     ██╔══██║██║╚██╔╝██║╚════██║██╔══╝     ██║
   │  ╚██████╗██║  ██║██║ ╚═╝ ██║███████║███████╗   ██║
   │   ╚═════╝╚═╝  ╚═╝╚═╝     ╚═╝╚══════╝╚══════╝   ╚═╝
   │        group Flickr photos by camera model
   └─────────────────────────────────────────────┘
`

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if noColor.Load() {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

var (
	quietMode atomic.Bool
	noColor   atomic.Bool
)

func init() {
	// Colors only make sense on a terminal
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		noColor.Store(true)
	}
}

// SetQuietMode suppresses everything except errors
func SetQuietMode(quiet bool) {
	quietMode.Store(quiet)
}

// IsQuietMode reports whether quiet mode is enabled
func IsQuietMode() bool {
	return quietMode.Load()
}

// SetNoColor disables ANSI colors in all output
func SetNoColor(disable bool) {
	noColor.Store(disable)
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	if quietMode.Load() {
		return
	}
	fmt.Print(Cyan(ASCIILogo))
}

// PrintError prints an error message in red. Errors print even in quiet mode.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if quietMode.Load() {
		return
	}
	fmt.Println(Green(msg))
}

// PrintInfo prints a labeled info message in cyan
func PrintInfo(label string, value string) {
	if quietMode.Load() {
		return
	}
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if quietMode.Load() {
		return
	}
	if len(args) > 0 {
		fmt.Println(Yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if quietMode.Load() {
		return
	}
	fmt.Println(Magenta(msg))
}

// PrintStep prints a dimmed progress line, e.g. per-page fetch status
func PrintStep(format string, args ...interface{}) {
	if quietMode.Load() {
		return
	}
	fmt.Println(Dim(fmt.Sprintf(format, args...)))
}
