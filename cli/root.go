package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"jsh/config"
	"jsh/middleware"
	"jsh/vfs"
)

var rootCmd = &cobra.Command{
	Use:   "jsh",
	Short: "A browser-style terminal over an in-memory filesystem",
	Long: `jsh runs a small Unix-like shell against an in-memory filesystem tree
seeded from a YAML snapshot. Nothing ever touches the host disk.

Serve it to browsers over a websocket with "jsh serve", or use it locally
with "jsh repl".

Configuration is read from JSH_* environment variables and an optional .env
file; flags override both.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("profile", "", "Profile (home directory name) to run as (env JSH_PROFILE)")
	rootCmd.PersistentFlags().String("snapshot", "", "YAML or JSON snapshot to seed the filesystem from (env JSH_SNAPSHOT)")
	rootCmd.PersistentFlags().Bool("strict-separators", false, `Collapse "//" into "/" instead of "." (env JSH_STRICT_SEPARATORS)`)
}

// loadConfig reads the environment, plus a .env file in the working
// directory if there is one, and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("profile") {
		cfg.Shell.Profile, _ = flags.GetString("profile")
	}
	if flags.Changed("snapshot") {
		cfg.Shell.Snapshot, _ = flags.GetString("snapshot")
	}
	if flags.Changed("strict-separators") {
		cfg.Shell.StrictSeparators, _ = flags.GetBool("strict-separators")
	}
	if flags.Lookup("host") != nil && flags.Changed("host") {
		cfg.Server.Host, _ = flags.GetString("host")
	}
	if flags.Lookup("port") != nil && flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetInt("port")
	}

	if err := middleware.ValidateProfile(cfg.Shell.Profile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSnapshot returns the configured seed tree.
func loadSnapshot(cfg *config.Config) (*vfs.Tree, error) {
	if cfg.Shell.Snapshot == "" {
		return vfs.DefaultSnapshot(), nil
	}
	tree, err := vfs.LoadSnapshotFile(cfg.Shell.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", cfg.Shell.Snapshot, err)
	}
	return tree, nil
}
