package controller

import (
	"github.com/gin-gonic/gin"

	"jsh/middleware"
)

func SetupRoutes(r *gin.Engine, sc *ShellController) {
	r.GET("/healthz", sc.Health)
	if sc.metrics != nil {
		r.GET("/metrics", gin.WrapH(sc.metrics.Handler()))
	}

	shell := r.Group("/shell", sc.limit...)
	shell.Use(middleware.Profile(sc.profile))
	{
		shell.GET("/local", sc.HandleLocalShell)
		shell.GET("/download", sc.Download)
	}
}
