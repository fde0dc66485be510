package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export-snapshot [file]",
	Short: "Write the seed filesystem as YAML",
	Long: `Write the configured snapshot (or the built-in one) as YAML, to file or
stdout. The output is a valid --snapshot input and a starting point for a
custom tree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tree, err := loadSnapshot(cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return tree.WriteSnapshot(cmd.OutOrStdout())
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("create %s: %w", args[0], err)
	}
	if err := tree.WriteSnapshot(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
