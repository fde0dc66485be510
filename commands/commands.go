// Package commands implements the built-in jsh commands.
//
// Handlers report failures by returning a *session.Error; the dispatcher
// turns it into a "<command>: <message>" output line.
package commands

import (
	"strings"

	"jsh/session"
)

// Filesystem returns the commands that read or mutate the tree.
func Filesystem() session.Registry {
	return session.Registry{}.Register(
		session.Command{Name: "cat", Usage: "cat [FILE]", Summary: "Print a file.", Run: Cat},
		session.Command{Name: "cd", Usage: "cd [DIRECTORY]", Summary: "Change the current directory.", Run: Cd},
		session.Command{Name: "ls", Usage: "ls [-a] [PATH]", Summary: "List directory entries.", Run: Ls},
		session.Command{Name: "mkdir", Usage: "mkdir [DIRECTORY]...", Summary: "Create directories.", Run: Mkdir},
		session.Command{Name: "pwd", Usage: "pwd", Summary: "Print the current directory.", Run: Pwd},
		session.Command{Name: "rm", Usage: "rm [-r] [FILE]...", Summary: "Remove files or directories.", Run: Rm},
		session.Command{Name: "touch", Usage: "touch [FILE]", Summary: "Create an empty file.", Run: Touch},
	)
}

// Utility returns the session commands that never touch the tree, apart
// from reading the history file.
func Utility() session.Registry {
	return session.Registry{}.Register(
		session.Command{Name: "clear", Usage: "clear", Summary: "Clear the terminal.", Run: Clear},
		session.Command{Name: "echo", Usage: "echo [WORD]...", Summary: "Print arguments.", Run: Echo},
		session.Command{Name: "history", Usage: "history", Summary: "Show previous commands.", Run: History},
		session.Command{Name: "whoami", Usage: "whoami", Summary: "Print the current profile.", Run: Whoami},
	)
}

// Default is every built-in command plus help, which lists them.
func Default() session.Registry {
	r := session.Merge(Filesystem(), Utility())
	r.Register(session.Command{Name: "help", Usage: "help", Summary: "Show available commands.", Run: Help(r)})
	return r
}

// positional returns the arguments that are not flags.
func positional(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			out = append(out, a)
		}
	}
	return out
}

// hasFlag reports whether short appears in a bundled short flag (-la) or
// long appears as --long.
func hasFlag(args []string, short byte, long string) bool {
	for _, a := range args {
		switch {
		case a == "--"+long:
			return true
		case strings.HasPrefix(a, "--"):
		case strings.HasPrefix(a, "-") && strings.IndexByte(a[1:], short) >= 0:
			return true
		}
	}
	return false
}
