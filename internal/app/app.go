// Package app provides the main application logic and lifecycle management.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"settings-ui/internal/i18n"
	"settings-ui/internal/store"
	"settings-ui/internal/types"
	"settings-ui/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"
	"gorm.io/gorm"
)

// App holds all services and manages the application lifecycle.
type App struct {
	engine        *gin.Engine
	configManager types.ConfigManager
	db            *gorm.DB
	storage       store.Store
	httpServer    *http.Server
}

// AppParams defines the dependencies for the App.
type AppParams struct {
	dig.In
	Engine        *gin.Engine
	ConfigManager types.ConfigManager
	DB            *gorm.DB
	Storage       store.Store
}

// NewApp is the constructor for App, with dependencies injected by dig.
func NewApp(params AppParams) *App {
	return &App{
		engine:        params.Engine,
		configManager: params.ConfigManager,
		db:            params.DB,
		storage:       params.Storage,
	}
}

// Start runs the HTTP server in the background.
func (a *App) Start() error {
	settingsConfig := a.configManager.GetSettingsConfig()
	i18n.SetDefaultLanguage(settingsConfig.DefaultLocale)

	if key := a.configManager.GetAuthConfig().Key; key != "" && !utils.IsBcryptHash(key) {
		utils.ValidatePasswordStrength(key, "AUTH_KEY")
	} else if key == "" {
		logrus.Warn("AUTH_KEY is not set, the settings page and API are unauthenticated")
	}
	if key := a.configManager.GetEncryptionKey(); key != "" {
		utils.ValidatePasswordStrength(key, "ENCRYPTION_KEY")
	}

	serverConfig := a.configManager.GetEffectiveServerConfig()
	a.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port),
		Handler:        a.engine,
		ReadTimeout:    time.Duration(serverConfig.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(serverConfig.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(serverConfig.IdleTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	a.configManager.DisplayServerConfig()

	go func() {
		logrus.Infof("Settings server listening on http://%s", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server startup failed: %v", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the server and releases the database and cache.
func (a *App) Stop(ctx context.Context) {
	logrus.Info("Shutting down server...")

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			logrus.Errorf("Server forced to shutdown: %v", err)
		}
	}

	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			logrus.Warnf("Error closing store: %v", err)
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logrus.Warnf("Error closing database: %v", err)
			}
		}
	}

	logrus.Info("Server exited gracefully")
}
