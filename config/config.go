package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	pkgerrors "github.com/kinobot-uz/kinobot/pkg/errors"
)

// Config holds all configuration for the bot
type Config struct {
	Telegram   TelegramConfig
	Database   DatabaseConfig
	Validation ValidationConfig
	Logging    LoggingConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
	AdminID  int64
}

// DatabaseConfig holds SQLite database configuration
type DatabaseConfig struct {
	File string
}

// ValidationConfig holds subscription validation configuration
type ValidationConfig struct {
	TTL time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config     *Config
	Telegram   *TelegramConfig
	Database   *DatabaseConfig
	Validation *ValidationConfig
	Logging    *LoggingConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:     cfg,
		Telegram:   &cfg.Telegram,
		Database:   &cfg.Database,
		Validation: &cfg.Validation,
		Logging:    &cfg.Logging,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("BOT_TOKEN", ""),
			AdminID:  getEnvInt64("ADMIN_ID", 0),
		},
		Database: DatabaseConfig{
			File: getEnv("DB_FILE", "kinobot.db"),
		},
		Validation: ValidationConfig{
			TTL: time.Duration(getEnvInt64("VALIDATION_TTL", 3600)) * time.Second,
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return pkgerrors.NewConfigError("BOT_TOKEN is required")
	}

	if c.Validation.TTL <= 0 {
		return pkgerrors.NewConfigError("VALIDATION_TTL must be positive")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt64 gets an int64 environment variable with default value.
// An unparsable value falls back to the default: a broken ADMIN_ID
// disables the admin surface instead of failing startup.
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
