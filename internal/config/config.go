package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config is the process configuration read from the environment
type Config struct {
	DiscordToken  string `env:"DISCORD_TOKEN"`
	ApplicationID string `env:"APPLICATION_ID"`

	// GuildID registers commands on one guild instead of globally
	GuildID string `env:"GUILD_ID"`

	RedisAddr     string `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" default:"0"`

	// TemplatesFile is a YAML file of templates and guild configs stored at startup, optional
	TemplatesFile string `env:"TEMPLATES_FILE"`

	// MetricsAddr serves /metrics when set
	MetricsAddr string `env:"METRICS_ADDR" default:":9090"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	ConfirmationTimeout time.Duration `env:"CONFIRMATION_TIMEOUT" default:"60s"`
	TickInterval        time.Duration `env:"TICK_INTERVAL" default:"5s"`
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DiscordToken == "" {
		return errors.New("DISCORD_TOKEN is required")
	}
	if cfg.RedisDB < 0 {
		return errors.New("REDIS_DB must not be negative")
	}
	if cfg.ConfirmationTimeout <= 0 {
		return errors.New("CONFIRMATION_TIMEOUT must be positive")
	}
	if cfg.TickInterval <= 0 {
		return errors.New("TICK_INTERVAL must be positive")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	return nil
}
