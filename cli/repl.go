package cli

import (
	"time"

	"github.com/spf13/cobra"

	"jsh/commands"
	"jsh/session"
	term "jsh/shell"
	"jsh/tui"
	"jsh/vfs"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Run a terminal in this console",
	Long: `Run a terminal locally.

On a TTY this opens a full-screen terminal: ↑/↓ walk the history, ctrl+c
abandons the current line and ctrl+d or "exit" quits. Otherwise commands are
read one per line from stdin and their output is written to stdout, which
makes scripted sessions possible:

  printf 'ls\ncat notes.txt\n' | jsh repl`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tree, err := loadSnapshot(cfg)
	if err != nil {
		return err
	}
	tree.EnsureHome(cfg.Shell.Profile)

	dispatcher := term.NewDispatcher(commands.Default(),
		term.WithResolver(vfs.Resolver{StrictSeparators: cfg.Shell.StrictSeparators}),
	)
	terminal := term.NewTerminal(dispatcher, session.New(tree, cfg.Shell.Profile, time.Now()))
	terminal.Login()

	return tui.Run(terminal, cmd.InOrStdin(), cmd.OutOrStdout())
}
