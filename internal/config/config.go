package config

// Storage backend names accepted by DatabaseConfig.Backend.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Study    StudyConfig    `mapstructure:"study"`
	Sync     SyncConfig     `mapstructure:"sync"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
// The memory backend needs no URL and loses everything on restart; it exists
// for tests and throwaway runs.
type DatabaseConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=postgres memory"`
	URL     string `mapstructure:"url" validate:"required_if=Backend postgres,omitempty,url"`
}

// AuthConfig contains all authentication and authorization settings. The
// passphrase hash is a bcrypt hash of the single owner's login passphrase.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	PassphraseHash              string `mapstructure:"passphrase_hash" validate:"required"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// StudyConfig tunes the scheduling engine. Zero values fall back to the
// built-in defaults; the interval table itself is not configurable.
type StudyConfig struct {
	MorningFailedChunk int `mapstructure:"morning_failed_chunk" validate:"gte=0"`
	EveningQueueCap    int `mapstructure:"evening_queue_cap" validate:"gte=0"`
	MaxNewPerStudyDay  int `mapstructure:"max_new_per_study_day" validate:"gte=0"`
}

// SyncConfig configures the remote replica. Sync is optional; without a
// remote URL the app works purely locally.
type SyncConfig struct {
	RemoteURL      string `mapstructure:"remote_url" validate:"omitempty,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`
}

// LLMConfig contains all LLM integration related settings. Enrichment is
// optional; without an API key words are created without generated notes.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}
