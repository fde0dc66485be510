package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jsh/logging"
	"jsh/monitoring"
	"jsh/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve terminals over websocket",
	Long: `Serve terminals to browsers.

Routes:
  GET /shell/local     websocket carrying the shell, fs, upload and heartbeat services
  GET /shell/download  a snapshot file, or a directory as a zip archive
  GET /healthz         liveness
  GET /metrics         Prometheus metrics

Every websocket connection works on its own copy of the snapshot.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "Address to listen on (env JSH_HOST)")
	serveCmd.Flags().Int("port", 0, "Port to listen on (env JSH_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	snapshot, err := loadSnapshot(cfg)
	if err != nil {
		return err
	}

	logger.Info("starting jsh",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("profile", cfg.Shell.Profile),
		zap.String("snapshot", cfg.Shell.Snapshot),
		zap.Bool("strict_separators", cfg.Shell.StrictSeparators),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(cfg, snapshot, monitoring.NewMetrics(nil), logger)
	return srv.Run(ctx)
}
