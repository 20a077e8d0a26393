// Package config loads the bot configuration from an optional YAML file,
// a .env file and environment variables, applies defaults and validates it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config defines the application configuration.
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Timezone  string          `mapstructure:"timezone"  validate:"required,timezone"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	AMQP      AMQPConfig      `mapstructure:"amqp"`
	Messages  MessagesConfig  `mapstructure:"messages"`

	location *time.Location
}

// TelegramConfig holds the transport settings. OwnerUserID, when set, is
// treated as an admin in every chat.
type TelegramConfig struct {
	Token       string `mapstructure:"token"         validate:"required"`
	OwnerUserID int64  `mapstructure:"owner_user_id" validate:"gte=0"`
}

// DatabaseConfig holds the SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LoggerConfig holds the logging settings.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures one scheduled task. Schedule is a six-field cron
// expression (seconds first).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// AMQPConfig enables publishing of recorded transactions when URL is set.
type AMQPConfig struct {
	URL        string `mapstructure:"url"         validate:"omitempty,url"`
	Exchange   string `mapstructure:"exchange"    validate:"required_with=URL"`
	RoutingKey string `mapstructure:"routing_key" validate:"required_with=URL"`
}

// MessagesConfig holds user-facing replies.
type MessagesConfig struct {
	Help             string `mapstructure:"help"              validate:"required"`
	GeneralError     string `mapstructure:"general_error"     validate:"required"`
	NotAuthorized    string `mapstructure:"not_authorized"    validate:"required"`
	ResetConfirm     string `mapstructure:"reset_confirm"     validate:"required"`
	SetSourceUsage   string `mapstructure:"setsource_usage"   validate:"required"`
	SetSourceConfirm string `mapstructure:"setsource_confirm" validate:"required"`
	ExportCaption    string `mapstructure:"export_caption"    validate:"required"`
}

// Location returns the loaded reporting timezone.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// LoadConfig reads configuration in increasing precedence: defaults, the YAML
// file at path (optional), .env, then environment variables. Keys map to
// environment variables with dots replaced by underscores (TELEGRAM_TOKEN);
// BOT_TOKEN is accepted as an alias for telegram.token.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("telegram.token", "TELEGRAM_TOKEN", "BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind token environment: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !isNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			slog.Info("Configuration file not found, using defaults and environment", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	return cfg, nil
}
