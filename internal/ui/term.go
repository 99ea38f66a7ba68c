package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// NoColor reports whether output to w should be plain.
func NoColor(w io.Writer) bool {
	return DetectNoColor() || !IsTTY(w)
}

// AmbientDark reports whether the terminal has a dark background.
// Without a terminal on stdout there is no signal, so it reports false.
func AmbientDark() bool {
	if !IsTTY(os.Stdout) {
		return false
	}
	return lipgloss.HasDarkBackground()
}
