package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// ServeStaticFiles serves the landing page and public assets when present.
func ServeStaticFiles(router *gin.Engine, viewsDir, publicDir string) {
	index := filepath.Join(viewsDir, "index.html")
	if _, err := os.Stat(index); err == nil {
		router.StaticFile("/", index)
	}

	if info, err := os.Stat(publicDir); err == nil && info.IsDir() {
		router.Static("/public", publicDir)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
