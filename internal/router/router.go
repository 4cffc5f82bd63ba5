package router

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"settings-ui/internal/handler"
	"settings-ui/internal/middleware"
	"settings-ui/internal/types"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

type embedFileSystem struct {
	http.FileSystem
}

func (e embedFileSystem) Exists(prefix string, path string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	_, err := e.Open(strings.TrimPrefix(path, prefix))
	return err == nil
}

// EmbedFolder exposes a directory of an embedded filesystem to the static middleware.
func EmbedFolder(fsEmbed embed.FS, targetPath string) static.ServeFileSystem {
	efs, err := fs.Sub(fsEmbed, targetPath)
	if err != nil {
		panic(err)
	}
	return embedFileSystem{
		FileSystem: http.FS(efs),
	}
}

// NewRouter builds the gin engine serving the settings page and API.
func NewRouter(
	serverHandler *handler.Server,
	configManager types.ConfigManager,
	staticFS embed.FS,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Register global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger(configManager.GetLogConfig()))
	startTime := time.Now()
	router.Use(func(c *gin.Context) {
		c.Set("serverStartTime", startTime)
		c.Next()
	})

	// Register routes
	registerSystemRoutes(router, serverHandler)
	registerAdminRoutes(router, serverHandler, configManager)
	registerAPIRoutes(router, serverHandler, configManager)
	registerStaticRoutes(router, staticFS)

	return router
}

// registerSystemRoutes registers system-level routes
func registerSystemRoutes(router *gin.Engine, serverHandler *handler.Server) {
	router.GET("/health", serverHandler.Health)
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, handler.SettingsPagePath)
	})
}

// registerAdminRoutes registers the HTML settings form
func registerAdminRoutes(router *gin.Engine, serverHandler *handler.Server, configManager types.ConfigManager) {
	admin := router.Group(handler.SettingsPagePath)
	admin.Use(gzip.Gzip(gzip.DefaultCompression))
	admin.Use(middleware.Auth(configManager.GetAuthConfig()))
	{
		admin.GET("", serverHandler.ShowSettingsPage)
		admin.POST("", serverHandler.SubmitSettingsPage)
	}
}

// registerAPIRoutes registers authenticated API routes
func registerAPIRoutes(router *gin.Engine, serverHandler *handler.Server, configManager types.ConfigManager) {
	api := router.Group("/api")
	api.Use(middleware.Auth(configManager.GetAuthConfig()))

	settings := api.Group("/settings")
	{
		settings.GET("", serverHandler.GetSettings)
		settings.PUT("", serverHandler.UpdateSettings)
		settings.GET("/export", serverHandler.ExportSettings)
		settings.POST("/import", serverHandler.ImportSettings)
		settings.GET("/history", serverHandler.SnapshotHistory)
		settings.PUT("/:key", serverHandler.UpdateSetting)
	}
}

// registerStaticRoutes registers the embedded stylesheet and fallbacks. Both
// middlewares only reach the NoRoute chain since every route is registered above.
func registerStaticRoutes(router *gin.Engine, staticFS embed.FS) {
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(static.Serve("/static", EmbedFolder(staticFS, "web/static")))

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
}
