// Package handler provides HTTP handlers for the application
package handler

import (
	"errors"
	"net/http"
	"time"

	app_errors "settings-ui/internal/errors"
	"settings-ui/internal/render"
	"settings-ui/internal/response"
	"settings-ui/internal/services"
	"settings-ui/internal/settings"
	"settings-ui/internal/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/dig"
)

// Server contains dependencies for HTTP handlers
type Server struct {
	config          types.ConfigManager
	Builder         *settings.Builder
	Updater         *settings.Updater
	SnapshotService *services.SnapshotService
	Renderer        *render.Renderer
}

// NewServerParams defines the dependencies for the NewServer constructor.
type NewServerParams struct {
	dig.In
	Config          types.ConfigManager
	Builder         *settings.Builder
	Updater         *settings.Updater
	SnapshotService *services.SnapshotService
	Renderer        *render.Renderer
}

// NewServer creates a new handler instance with dependencies injected by dig.
func NewServer(params NewServerParams) *Server {
	return &Server{
		config:          params.Config,
		Builder:         params.Builder,
		Updater:         params.Updater,
		SnapshotService: params.SnapshotService,
		Renderer:        params.Renderer,
	}
}

// Health handles health check requests
func (s *Server) Health(c *gin.Context) {
	uptime := "unknown"
	if startTime, exists := c.Get("serverStartTime"); exists {
		if st, ok := startTime.(time.Time); ok {
			uptime = time.Since(st).String()
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    uptime,
	})
}

// updateOptions returns the configured defaults for applying submissions.
func (s *Server) updateOptions() settings.UpdateOptions {
	return settings.UpdateOptions{
		RejectDegraded: s.config.GetSettingsConfig().RejectDegraded,
	}
}

// handleServiceError maps settings and store failures to an API response.
func handleServiceError(c *gin.Context, err error) {
	var apiErr *app_errors.APIError
	if errors.As(err, &apiErr) {
		response.Error(c, apiErr)
		return
	}
	response.Error(c, app_errors.FromSettingsError(err))
}
