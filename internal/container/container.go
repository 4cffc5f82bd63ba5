// Package container provides a dependency injection container for the application.
package container

import (
	"settings-ui/internal/app"
	"settings-ui/internal/config"
	"settings-ui/internal/db"
	"settings-ui/internal/encryption"
	"settings-ui/internal/handler"
	"settings-ui/internal/render"
	"settings-ui/internal/router"
	"settings-ui/internal/schema"
	"settings-ui/internal/services"
	"settings-ui/internal/settings"
	"settings-ui/internal/store"
	"settings-ui/internal/types"

	"go.uber.org/dig"
)

// BuildContainer creates a new dependency injection container and provides all the application's services.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Infrastructure Services
	if err := container.Provide(config.NewManager); err != nil {
		return nil, err
	}
	if err := container.Provide(db.NewDB); err != nil {
		return nil, err
	}
	if err := container.Provide(store.NewStore); err != nil {
		return nil, err
	}
	if err := container.Provide(encryption.NewService); err != nil {
		return nil, err
	}
	if err := container.Provide(schema.NewSource); err != nil {
		return nil, err
	}

	// Settings Services
	if err := container.Provide(services.NewOverrideStore); err != nil {
		return nil, err
	}
	if err := container.Provide(services.NewSettingsStore); err != nil {
		return nil, err
	}
	// 引擎只依赖 types.SettingsStore 接口
	if err := container.Provide(func(s *services.SettingsStore) types.SettingsStore {
		return s
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(NewConverter); err != nil {
		return nil, err
	}
	if err := container.Provide(settings.NewBuilder); err != nil {
		return nil, err
	}
	if err := container.Provide(settings.NewUpdater); err != nil {
		return nil, err
	}
	if err := container.Provide(services.NewSnapshotService); err != nil {
		return nil, err
	}

	// Handlers
	if err := container.Provide(render.NewRenderer); err != nil {
		return nil, err
	}
	if err := container.Provide(handler.NewServer); err != nil {
		return nil, err
	}

	// Router
	if err := container.Provide(router.NewRouter); err != nil {
		return nil, err
	}

	// Application Layer
	if err := container.Provide(app.NewApp); err != nil {
		return nil, err
	}

	return container, nil
}

// NewConverter builds the value converter with the configured empty input policy.
func NewConverter(configManager types.ConfigManager) (*settings.Converter, error) {
	policy, err := settings.ParseEmptyPolicy(configManager.GetSettingsConfig().EmptyInputPolicy)
	if err != nil {
		return nil, err
	}
	return settings.NewConverter(policy), nil
}
