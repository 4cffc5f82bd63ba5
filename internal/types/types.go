package types

import "context"

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetAuthConfig() AuthConfig
	GetLogConfig() LogConfig
	GetDatabaseConfig() DatabaseConfig
	GetEffectiveServerConfig() ServerConfig
	GetSettingsConfig() SettingsConfig
	GetRedisDSN() string
	GetEncryptionKey() string
	Validate() error
	DisplayServerConfig()
	ReloadConfig() error
}

// SettingsStore is the external collaborator the settings screen reads from and writes to.
type SettingsStore interface {
	// ListDefaults enumerates every known setting with its default.
	ListDefaults(ctx context.Context) (Schema, error)

	// Read returns the current value of a setting.
	Read(ctx context.Context, key string) (Value, error)

	// Write persists a value. Writing a null value clears the stored override.
	Write(ctx context.Context, key string, value Value) error
}

// DefaultPair is one entry of a map-form schema.
type DefaultPair struct {
	Key     string
	Default Value
}

// Schema is the enumeration returned by a SettingsStore.
// Map-form stores fill Defaults, list-form stores fill Fields with heterogeneous entries.
type Schema struct {
	Defaults []DefaultPair
	Fields   []any
}

// IsListForm reports whether the schema enumerates heterogeneous field entries.
func (s Schema) IsListForm() bool {
	return s.Fields != nil
}

// Len returns the number of enumerated entries.
func (s Schema) Len() int {
	if s.IsListForm() {
		return len(s.Fields)
	}
	return len(s.Defaults)
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port                    int    `json:"port"`
	Host                    string `json:"host"`
	ReadTimeout             int    `json:"read_timeout"`
	WriteTimeout            int    `json:"write_timeout"`
	IdleTimeout             int    `json:"idle_timeout"`
	GracefulShutdownTimeout int    `json:"graceful_shutdown_timeout"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Key string `json:"key"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `json:"level"`
	Format     string `json:"format"`
	EnableFile bool   `json:"enable_file"`
	FilePath   string `json:"file_path"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	DSN string `json:"dsn"`
}

// SettingsConfig controls where settings come from and how submissions are coerced.
type SettingsConfig struct {
	SchemaPath       string `json:"schema_path"`
	Backend          string `json:"backend"`
	EmptyInputPolicy string `json:"empty_input_policy"`
	RejectDegraded   bool   `json:"reject_degraded"`
	DefaultLocale    string `json:"default_locale"`
}

// Settings backends
const (
	BackendDatabase = "database"
	BackendCache    = "cache"
)

// SystemSettings defines the built-in settings served when no schema file is configured
type SystemSettings struct {
	// Basic parameters
	AppName            string `json:"app_name" default:"Settings UI"`
	AppURL             string `json:"app_url" default:"http://localhost:3001"`
	MaintenanceMessage string `json:"maintenance_message" default:""`

	// Mail
	MailFrom      string `json:"mail_from" default:"noreply@example.com"`
	MailSmtpHost  string `json:"mail_smtp_host" default:"smtp.example.com"`
	MailSmtpPort  int    `json:"mail_smtp_port" default:"587"`
	MailEnableTLS bool   `json:"mail_enable_tls" default:"true"`

	// API
	APIRateLimit      int     `json:"api_rate_limit" default:"100"`
	APITimeoutSeconds float64 `json:"api_timeout_seconds" default:"2.5"`

	// Cache
	CacheEnabled    bool `json:"cache_enabled" default:"true"`
	CacheTTLSeconds int  `json:"cache_ttl_seconds" default:"300"`

	// Misc
	AllowedHosts []string       `json:"allowed_hosts" default:"localhost,127.0.0.1"`
	FeatureFlags map[string]any `json:"feature_flags" default:"{\"beta\": false}"`
	Retries      int            `json:"retries" default:"3"`
}
