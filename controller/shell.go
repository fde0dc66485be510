package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jsh/commands"
	"jsh/config"
	"jsh/logging"
	"jsh/middleware"
	"jsh/monitoring"
	term "jsh/shell"
	"jsh/vfs"
	"jsh/websocket"
	"jsh/websocket/service/fs"
	"jsh/websocket/service/heartbeat"
	"jsh/websocket/service/shell"
	"jsh/websocket/service/upload"
)

// ShellController opens terminal connections. Every connection works on its
// own copy of the snapshot, shared by all of its services.
type ShellController struct {
	snapshot   *vfs.Tree
	dispatcher *term.Dispatcher
	resolver   vfs.Resolver
	profile    string

	idleTimeout time.Duration
	rps, burst  int
	limit       []gin.HandlerFunc

	metrics *monitoring.Metrics
	logger  *logging.Logger
}

func NewShellController(snapshot *vfs.Tree, cfg *config.Config, metrics *monitoring.Metrics, logger *logging.Logger) *ShellController {
	resolver := vfs.Resolver{StrictSeparators: cfg.Shell.StrictSeparators}

	opts := []term.Option{
		term.WithLogger(logger.Service("dispatcher")),
		term.WithResolver(resolver),
	}
	if metrics != nil {
		opts = append(opts, term.WithObserver(metrics))
	}

	sc := &ShellController{
		snapshot:    snapshot,
		dispatcher:  term.NewDispatcher(commands.Default(), opts...),
		resolver:    resolver,
		profile:     cfg.Shell.Profile,
		idleTimeout: cfg.Server.IdleTimeout(),
		metrics:     metrics,
		logger:      logger,
	}
	if cfg.RateLimit.Enabled {
		sc.rps, sc.burst = cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst
		sc.limit = []gin.HandlerFunc{middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		})}
	}
	return sc
}

func (sc *ShellController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"profile":  sc.profile,
		"commands": sc.dispatcher.Registry().Names(),
	})
}

func (sc *ShellController) HandleLocalShell(c *gin.Context) {
	profile := c.GetString(middleware.ProfileKey)
	logger := sc.logger.Service("ws").With(
		zap.String("conn", uuid.NewString()),
		zap.String("profile", profile),
	)

	opts := []websocket.Option{
		websocket.WithLogger(logger),
		websocket.WithIdleTimeout(sc.idleTimeout),
		websocket.WithRateLimit(sc.rps, sc.burst),
	}
	if sc.metrics != nil {
		opts = append(opts, websocket.WithRecorder(sc.metrics))
	}

	// the upgrader has already answered the request on failure
	wsServer, err := websocket.NewServer(c.Writer, c.Request, opts...)
	if err != nil {
		logger.Info("websocket upgrade failed", zap.Error(err))
		return
	}

	tree := sc.snapshot.Clone()
	tree.EnsureHome(profile)

	shellOpts := []shell.Option{shell.WithLogger(logger.Named("shell"))}
	uploadOpts := []upload.Option{upload.WithLogger(logger.Named("upload"))}
	if sc.metrics != nil {
		shellOpts = append(shellOpts, shell.WithCounter(sc.metrics))
		uploadOpts = append(uploadOpts, upload.WithRecorder(sc.metrics))
		sc.metrics.IncWSConnections()
		defer sc.metrics.DecWSConnections()
	}

	wsServer.Register(shell.NewLocalService(sc.dispatcher, tree, profile, shellOpts...))
	wsServer.Register(fs.NewLocalService(tree, sc.resolver, profile, logger.Named("fs")))
	wsServer.Register(upload.NewLocalService(tree, sc.resolver, profile, uploadOpts...))

	wsServer.RegisterPassive(heartbeat.NewService())

	logger.Info("connection opened")
	err = wsServer.Start()
	logger.Info("connection closed", zap.NamedError("reason", err))
}
