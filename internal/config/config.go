package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Blob      BlobConfig      `mapstructure:"blob" validate:"required"`
	Geocoding GeocodingConfig `mapstructure:"geocoding" validate:"required"`
	Task      TaskConfig      `mapstructure:"task" validate:"required"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=44640"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,lt=44640,gtfield=TokenLifetimeMinutes"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// BlobConfig selects and configures the media blob store.
type BlobConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=local gcs"`
	// LocalPath is the directory holding blobs for the local provider.
	LocalPath string `mapstructure:"local_path" validate:"required_if=Provider local"`
	// EncryptionKey is a hex-encoded 32 byte key used to encrypt local blobs.
	EncryptionKey string `mapstructure:"encryption_key" validate:"required_if=Provider local,omitempty,len=64,hexadecimal"`
	GCSBucket     string `mapstructure:"gcs_bucket" validate:"required_if=Provider gcs"`
	// GCSEndpoint overrides the storage API endpoint, for emulators.
	GCSEndpoint string `mapstructure:"gcs_endpoint" validate:"omitempty,url"`
}

// GeocodingConfig configures the Nominatim-compatible geocoder used by the
// toponym importer.
type GeocodingConfig struct {
	BaseURL           string        `mapstructure:"base_url" validate:"required,url"`
	UserAgent         string        `mapstructure:"user_agent" validate:"required"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"gt=0"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// TaskConfig contains settings for the background task runner.
type TaskConfig struct {
	WorkerCount         int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize           int `mapstructure:"queue_size" validate:"required,gt=0"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"required,gt=0"`
}

// TelemetryConfig enables OpenTelemetry tracing export.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint" validate:"required_if=Enabled true"`
	ServiceName string `mapstructure:"service_name"`
}
