package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables use the
// LEXDAY_ prefix with underscores for nesting (LEXDAY_SERVER_PORT,
// LEXDAY_DATABASE_URL) and take precedence over file values. Returns a
// populated Config or an error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; everything can come from the environment.
	}

	v.SetEnvPrefix("LEXDAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not surface env-only keys through Unmarshal unless
	// the keys are known, so bind them explicitly.
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env key %q: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// configKeys lists every key so environment-only configuration works.
var configKeys = []string{
	"server.port",
	"server.log_level",
	"server.shutdown_timeout_seconds",
	"database.backend",
	"database.url",
	"auth.jwt_secret",
	"auth.passphrase_hash",
	"auth.token_lifetime_minutes",
	"auth.refresh_token_lifetime_minutes",
	"study.morning_failed_chunk",
	"study.evening_queue_cap",
	"study.max_new_per_study_day",
	"sync.remote_url",
	"sync.timeout_seconds",
	"llm.gemini_api_key",
	"llm.model_name",
	"llm.max_retries",
	"llm.retry_delay_seconds",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 15)
	v.SetDefault("database.backend", BackendPostgres)
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080)
	v.SetDefault("sync.timeout_seconds", 30)
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
}
