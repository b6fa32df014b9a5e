// Package cliutil provides output helpers shared by the jsonref commands.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// IsTerminal reports whether w is a terminal. Only *os.File writers can be.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetColor enables or disables colored output globally.
// NO_COLOR is honored by the color package when enabled is true.
func SetColor(enabled bool) {
	color.NoColor = !enabled || os.Getenv("NO_COLOR") != ""
}

// Errorf writes a red "Error:" prefixed line to w.
func Errorf(w io.Writer, format string, args ...any) {
	Writef(w, "%s %s\n", color.RedString("Error:"), fmt.Sprintf(format, args...))
}

// Heading renders s as a section heading.
func Heading(s string) string {
	return color.New(color.Bold).Sprint(s)
}

// OK renders s in green.
func OK(s string) string {
	return color.GreenString(s)
}

// Failed renders s in red.
func Failed(s string) string {
	return color.RedString(s)
}

// Muted renders s in a dim color.
func Muted(s string) string {
	return color.New(color.Faint).Sprint(s)
}
