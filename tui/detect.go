package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode of the REPL.
type Mode int

const (
	// ModeNonInteractive reads one command per line and prints plain output.
	ModeNonInteractive Mode = iota
	// ModeInteractive runs the full-screen terminal.
	ModeInteractive
)

// DetectMode returns ModeNonInteractive when JSH_NON_INTERACTIVE=1, CI or
// NO_COLOR is set, or when stdin or stdout is not a terminal.
func DetectMode() Mode {
	if os.Getenv("JSH_NON_INTERACTIVE") == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ModeNonInteractive
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeNonInteractive
	}

	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
