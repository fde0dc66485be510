package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jsh/downloader"
	"jsh/middleware"
)

// Download serves a file, or a directory as a zip archive, from the snapshot
// every connection starts from. Changes made inside a connection are not
// visible here.
func (sc *ShellController) Download(c *gin.Context) {
	p := c.Query("path")
	if p == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	d := downloader.NewTreeDownloader(sc.snapshot, sc.resolver, c.GetString(middleware.ProfileKey))
	info, err := d.Stat(p)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if info.IsDir {
		rc, _, err := d.DownloadDir(p)
		if err != nil {
			sc.downloadError(c, p, err)
			return
		}
		defer rc.Close()
		c.DataFromReader(http.StatusOK, -1, "application/zip", rc, map[string]string{
			"Content-Disposition": fmt.Sprintf(`attachment; filename="%s.zip"`, info.Name),
		})
		return
	}

	rc, _, err := d.Download(p)
	if err != nil {
		sc.downloadError(c, p, err)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, info.Size, "application/octet-stream", rc, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, info.Name),
	})
}

func (sc *ShellController) downloadError(c *gin.Context, p string, err error) {
	sc.logger.Service("download").Info("download failed", zap.String("path", p), zap.Error(err))
	status := http.StatusInternalServerError
	if errors.Is(err, downloader.ErrNotExist) {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
