package bot

import (
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the bot-level configuration loaded from environment variables.
// Module-specific settings live with their modules.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig loads configuration from environment variables. Returns an error
// if required fields are missing.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SlogLevel maps the configured log level to a slog level. Unrecognized
// values fall back to Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
