package api

import (
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/bulktube-go/api/handlers"
	"github.com/yourusername/bulktube-go/api/middleware"
	"github.com/yourusername/bulktube-go/internal/domain"
	"github.com/yourusername/bulktube-go/web"
)

const indexFile = "index.html"

var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".txt":  "text/plain; charset=utf-8",
}

// SetupRouter wires middleware, API handlers and the landing page
func SetupRouter(
	info handlers.InfoResolver,
	download handlers.DownloadTrigger,
	extractor handlers.VersionChecker,
	config *domain.ServerConfig,
	version string,
	log *zap.Logger,
) *gin.Engine {
	return setupRouter(info, download, extractor, config, version, log, web.GetStaticFS())
}

func setupRouter(
	info handlers.InfoResolver,
	download handlers.DownloadTrigger,
	extractor handlers.VersionChecker,
	config *domain.ServerConfig,
	version string,
	log *zap.Logger,
	staticFS fs.FS,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(config.CORSOrigins))

	healthHandler := handlers.NewHealthHandler(extractor, version)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	mediaHandler := handlers.NewMediaHandler(info, download, log)
	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/info", mediaHandler.GetInfo)
		apiGroup.POST("/download", mediaHandler.Download)
	}

	router.GET("/", func(c *gin.Context) {
		serveFile(c, staticFS, indexFile)
	})

	router.GET("/static/*filepath", func(c *gin.Context) {
		filePath := strings.TrimPrefix(c.Param("filepath"), "/")
		serveFile(c, staticFS, filePath)
	})

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		serveFile(c, staticFS, indexFile)
	})

	return router
}

// serveFile writes a file from the embedded filesystem with its content type
func serveFile(c *gin.Context, staticFS fs.FS, filePath string) {
	if filePath == "" || !fs.ValidPath(filePath) {
		c.String(http.StatusNotFound, "File not found")
		return
	}

	file, err := staticFS.Open(filePath)
	if err != nil {
		c.String(http.StatusNotFound, "File not found: %v", err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to read file: %v", err)
		return
	}

	contentType, ok := contentTypes[strings.ToLower(path.Ext(filePath))]
	if !ok {
		contentType = "application/octet-stream"
	}

	c.Data(http.StatusOK, contentType, content)
}
