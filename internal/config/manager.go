// Package config provides configuration management services
package config

import (
	"fmt"
	"os"
	"strings"

	"settings-ui/internal/settings"
	"settings-ui/internal/types"
	"settings-ui/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Constants represents configuration constants
type Constants struct {
	MinPort    int
	MaxPort    int
	MinTimeout int
}

// DefaultConstants holds default configuration values
var DefaultConstants = Constants{
	MinPort:    1,
	MaxPort:    65535,
	MinTimeout: 1,
}

// Manager implements the ConfigManager interface
type Manager struct {
	config *Config
}

// Config represents the application configuration
type Config struct {
	Server        types.ServerConfig
	Auth          types.AuthConfig
	Log           types.LogConfig
	Database      types.DatabaseConfig
	Settings      types.SettingsConfig
	RedisDSN      string
	EncryptionKey string
}

// NewManager creates a new configuration manager
func NewManager() (types.ConfigManager, error) {
	manager := &Manager{}
	if err := manager.ReloadConfig(); err != nil {
		return nil, err
	}
	return manager, nil
}

// ReloadConfig reloads the configuration from environment variables
func (m *Manager) ReloadConfig() error {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			logrus.Warnf("Failed to load .env file: %v", err)
		}
	}

	config := &Config{
		Server: types.ServerConfig{
			Host:                    utils.GetEnvOrDefault("HOST", "0.0.0.0"),
			Port:                    utils.ParseInteger(os.Getenv("PORT"), 3001),
			ReadTimeout:             utils.ParseInteger(os.Getenv("READ_TIMEOUT"), 60),
			WriteTimeout:            utils.ParseInteger(os.Getenv("WRITE_TIMEOUT"), 60),
			IdleTimeout:             utils.ParseInteger(os.Getenv("IDLE_TIMEOUT"), 120),
			GracefulShutdownTimeout: utils.ParseInteger(os.Getenv("GRACEFUL_SHUTDOWN_TIMEOUT"), 10),
		},
		Auth: types.AuthConfig{
			Key: os.Getenv("AUTH_KEY"),
		},
		Log: types.LogConfig{
			Level:      utils.GetEnvOrDefault("LOG_LEVEL", "info"),
			Format:     utils.GetEnvOrDefault("LOG_FORMAT", "text"),
			EnableFile: utils.ParseBoolean(os.Getenv("LOG_ENABLE_FILE"), false),
			FilePath:   utils.GetEnvOrDefault("LOG_FILE_PATH", "./data/logs/app.log"),
		},
		Database: types.DatabaseConfig{
			DSN: os.Getenv("DATABASE_DSN"),
		},
		Settings: types.SettingsConfig{
			SchemaPath:       os.Getenv("SETTINGS_SCHEMA_PATH"),
			Backend:          strings.ToLower(utils.GetEnvOrDefault("SETTINGS_BACKEND", types.BackendDatabase)),
			EmptyInputPolicy: utils.GetEnvOrDefault("EMPTY_INPUT_POLICY", "null"),
			RejectDegraded:   utils.ParseBoolean(os.Getenv("REJECT_DEGRADED"), false),
			DefaultLocale:    utils.GetEnvOrDefault("DEFAULT_LOCALE", "en"),
		},
		RedisDSN:      os.Getenv("REDIS_DSN"),
		EncryptionKey: os.Getenv("ENCRYPTION_KEY"),
	}
	m.config = config

	if err := m.Validate(); err != nil {
		return err
	}

	return nil
}

// GetAuthConfig returns authentication configuration
func (m *Manager) GetAuthConfig() types.AuthConfig {
	return m.config.Auth
}

// GetLogConfig returns logging configuration
func (m *Manager) GetLogConfig() types.LogConfig {
	return m.config.Log
}

// GetDatabaseConfig returns the database configuration.
func (m *Manager) GetDatabaseConfig() types.DatabaseConfig {
	return m.config.Database
}

// GetEffectiveServerConfig returns server configuration
func (m *Manager) GetEffectiveServerConfig() types.ServerConfig {
	return m.config.Server
}

// GetSettingsConfig returns the settings engine configuration.
func (m *Manager) GetSettingsConfig() types.SettingsConfig {
	return m.config.Settings
}

// GetRedisDSN returns the Redis DSN string.
func (m *Manager) GetRedisDSN() string {
	return m.config.RedisDSN
}

// GetEncryptionKey returns the encryption key.
func (m *Manager) GetEncryptionKey() string {
	return m.config.EncryptionKey
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	var validationErrors []string

	if m.config.Server.Port < DefaultConstants.MinPort || m.config.Server.Port > DefaultConstants.MaxPort {
		validationErrors = append(validationErrors, fmt.Sprintf("port must be between %d-%d", DefaultConstants.MinPort, DefaultConstants.MaxPort))
	}

	timeouts := map[string]int{
		"READ_TIMEOUT":              m.config.Server.ReadTimeout,
		"WRITE_TIMEOUT":             m.config.Server.WriteTimeout,
		"IDLE_TIMEOUT":              m.config.Server.IdleTimeout,
		"GRACEFUL_SHUTDOWN_TIMEOUT": m.config.Server.GracefulShutdownTimeout,
	}
	for _, name := range []string{"READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT", "GRACEFUL_SHUTDOWN_TIMEOUT"} {
		if timeouts[name] < DefaultConstants.MinTimeout {
			validationErrors = append(validationErrors, fmt.Sprintf("%s must be at least %d second", name, DefaultConstants.MinTimeout))
		}
	}

	switch m.config.Settings.Backend {
	case types.BackendDatabase, types.BackendCache:
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("SETTINGS_BACKEND must be %q or %q", types.BackendDatabase, types.BackendCache))
	}

	if _, err := settings.ParseEmptyPolicy(m.config.Settings.EmptyInputPolicy); err != nil {
		validationErrors = append(validationErrors, err.Error())
	}

	if len(validationErrors) > 0 {
		logrus.Error("Configuration validation failed:")
		for _, err := range validationErrors {
			logrus.Errorf("   - %s", err)
		}
		return fmt.Errorf("configuration validation failed: %s", strings.Join(validationErrors, "; "))
	}

	return nil
}

// DisplayServerConfig displays current server-related configuration information
func (m *Manager) DisplayServerConfig() {
	serverConfig := m.GetEffectiveServerConfig()
	settingsConfig := m.GetSettingsConfig()
	logConfig := m.GetLogConfig()
	dbConfig := m.GetDatabaseConfig()

	logrus.Info("")
	logrus.Info("======= Server Configuration =======")
	logrus.Info("  --- Server ---")
	logrus.Infof("    Listen Address: %s:%d", serverConfig.Host, serverConfig.Port)
	logrus.Infof("    Graceful Shutdown Timeout: %d seconds", serverConfig.GracefulShutdownTimeout)
	logrus.Infof("    Read Timeout: %d seconds", serverConfig.ReadTimeout)
	logrus.Infof("    Write Timeout: %d seconds", serverConfig.WriteTimeout)
	logrus.Infof("    Idle Timeout: %d seconds", serverConfig.IdleTimeout)

	logrus.Info("  --- Settings ---")
	schemaPath := settingsConfig.SchemaPath
	if schemaPath == "" {
		schemaPath = "built-in"
	}
	logrus.Infof("    Schema: %s", schemaPath)
	logrus.Infof("    Backend: %s", settingsConfig.Backend)
	logrus.Infof("    Empty Input Policy: %s", settingsConfig.EmptyInputPolicy)
	logrus.Infof("    Reject Degraded Values: %t", settingsConfig.RejectDegraded)
	logrus.Infof("    Default Locale: %s", settingsConfig.DefaultLocale)

	logrus.Info("  --- Security ---")
	authStatus := "disabled"
	if m.config.Auth.Key != "" {
		authStatus = "enabled"
	}
	logrus.Infof("    Admin Auth: %s", authStatus)
	encryptionStatus := "disabled"
	if m.config.EncryptionKey != "" {
		encryptionStatus = "enabled"
	}
	logrus.Infof("    Override Encryption: %s", encryptionStatus)

	logrus.Info("  --- Logging ---")
	logrus.Infof("    Log Level: %s", logConfig.Level)
	logrus.Infof("    Log Format: %s", logConfig.Format)
	logrus.Infof("    File Logging: %t", logConfig.EnableFile)
	if logConfig.EnableFile {
		logrus.Infof("    Log File Path: %s", logConfig.FilePath)
	}

	logrus.Info("  --- Dependencies ---")
	if dbConfig.DSN != "" {
		logrus.Info("    Database: configured")
	} else {
		logrus.Info("    Database: SQLite (default)")
	}
	if m.config.RedisDSN != "" {
		logrus.Info("    Redis: configured")
	} else {
		logrus.Info("    Redis: not configured")
	}
	logrus.Info("====================================")
	logrus.Info("")
}
