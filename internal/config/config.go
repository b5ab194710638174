package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the application
type Config struct {
	Redis   RedisConfig
	Webhook WebhookConfig
	Log     LogConfig
	HTTP    HTTPConfig
	Dice    DiceConfig
}

// RedisConfig holds Redis-specific configuration. An empty URL selects the
// in-memory repositories.
type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

// WebhookConfig holds the chat webhook every roll is posted to. Posting is
// disabled when URL is empty.
type WebhookConfig struct {
	URL       string `env:"WEBHOOK_URL"`
	Username  string `env:"WEBHOOK_USERNAME" envDefault:"StoryCraft"`
	AvatarURL string `env:"WEBHOOK_AVATAR_URL"`
}

// LogConfig selects the zap level and encoder
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// HTTPConfig holds the API listener settings
type HTTPConfig struct {
	Addr      string `env:"HTTP_ADDR" envDefault:":8080"`
	FeedLimit int    `env:"FEED_LIMIT" envDefault:"50"`
}

// DiceConfig seeds the dice source; 0 means crypto randomness
type DiceConfig struct {
	Seed int64 `env:"DICE_SEED" envDefault:"0"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.HTTP.FeedLimit <= 0 {
		return nil, fmt.Errorf("FEED_LIMIT must be positive, got %d", cfg.HTTP.FeedLimit)
	}
	switch cfg.Log.Format {
	case "json", "console":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be json or console, got %q", cfg.Log.Format)
	}

	return cfg, nil
}
