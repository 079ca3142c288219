package api

import (
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/ytdlp-web-go/api/handlers"
	"github.com/yourusername/ytdlp-web-go/api/middleware"
	"github.com/yourusername/ytdlp-web-go/internal/app"
	"github.com/yourusername/ytdlp-web-go/internal/domain"
	"github.com/yourusername/ytdlp-web-go/web"
)

// Version is reported by /ready
const Version = "1.0.0"

// SetupRouter sets up the HTTP router. history may be nil, in which case the
// history endpoints are not registered. An empty staticDir serves the
// embedded assets.
func SetupRouter(
	service *app.DownloadService,
	extractor handlers.ExtractorChecker,
	history domain.HistoryRepository,
	staticDir string,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.Logger(log.Named("http")))
	router.Use(middleware.Recovery(log))

	healthHandler := handlers.NewHealthHandler(extractor, Version)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	apiGroup := router.Group("/api")
	{
		downloadHandler := handlers.NewDownloadHandler(service, log)
		apiGroup.GET("/download", downloadHandler.Download)

		if history != nil {
			historyHandler := handlers.NewHistoryHandler(history, log)
			apiGroup.GET("/history", historyHandler.List)
			apiGroup.GET("/history/stats", historyHandler.Stats)
		}
	}

	staticFS := web.GetStaticFS()
	if staticDir != "" {
		staticFS = os.DirFS(staticDir)
	}

	router.GET("/", func(c *gin.Context) {
		serveFile(c, staticFS, "index.html")
	})

	router.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path

		if strings.HasPrefix(p, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		filePath := strings.Trim(path.Clean(p), "/")
		if filePath == "" {
			filePath = "."
		}

		if info, err := fs.Stat(staticFS, filePath); err == nil {
			if info.IsDir() {
				serveFile(c, staticFS, path.Join(filePath, "index.html"))
				return
			}
			serveFile(c, staticFS, filePath)
			return
		}

		c.String(http.StatusNotFound, "404 page not found")
	})

	return router
}

// serveFile serves a file from fsys with a content type derived from its extension
func serveFile(c *gin.Context, fsys fs.FS, filePath string) {
	file, err := fsys.Open(filePath)
	if err != nil {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to read file")
		return
	}

	contentType := mime.TypeByExtension(path.Ext(filePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Data(http.StatusOK, contentType, content)
}
