package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/storycraft/roller/internal/config"
	"github.com/storycraft/roller/internal/dice"
	"github.com/storycraft/roller/internal/discord/webhook"
	"github.com/storycraft/roller/internal/events"
	"github.com/storycraft/roller/internal/observability"
	"github.com/storycraft/roller/internal/repositories/characters"
	"github.com/storycraft/roller/internal/repositories/feed"
	"github.com/storycraft/roller/internal/services"
)

const redisPingTimeout = 5 * time.Second

// App wires configuration, storage and services together
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *observability.Metrics
	redis    *redis.Client
	provider *services.Provider
}

// NewApp connects to Redis when configured, falling back to in-memory
// repositories, and builds the services
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{
		cfg:     cfg,
		logger:  logger,
		metrics: observability.NewMetrics(),
	}

	providerConfig := &services.ProviderConfig{
		Roller:    newRoller(cfg.Dice),
		Metrics:   app.metrics,
		Logger:    logger,
		FeedLimit: cfg.HTTP.FeedLimit,
	}

	if client := app.connectRedis(ctx); client != nil {
		app.redis = client
		providerConfig.CharacterRepository = characters.NewRedis(client)
		providerConfig.FeedRepository = feed.NewRedis(client)
	}

	if cfg.Webhook.URL != "" {
		client, err := webhook.New(&webhook.Config{
			URL:       cfg.Webhook.URL,
			Username:  cfg.Webhook.Username,
			AvatarURL: cfg.Webhook.AvatarURL,
			Logger:    logger.Named("webhook"),
		})
		if err != nil {
			return nil, err
		}
		providerConfig.Listeners = []events.EventListener{
			webhook.NewNotifier(client, app.metrics, logger.Named("webhook")),
		}
		logger.Info("posting rolls to webhook", zap.String("username", cfg.Webhook.Username))
	}

	app.provider = services.NewProvider(providerConfig)
	return app, nil
}

func (a *App) connectRedis(ctx context.Context) *redis.Client {
	if a.cfg.Redis.URL == "" {
		a.logger.Info("no REDIS_URL found, using in-memory repositories")
		return nil
	}

	opts, err := redis.ParseURL(a.cfg.Redis.URL)
	if err != nil {
		a.logger.Warn("failed to parse Redis URL, falling back to in-memory repositories", zap.Error(err))
		return nil
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		a.logger.Warn("failed to connect to Redis, falling back to in-memory repositories", zap.Error(err))
		_ = client.Close()
		return nil
	}

	a.logger.Info("using Redis for persistence", zap.String("addr", opts.Addr))
	return client
}

// Close releases the Redis connection and flushes the logger
func (a *App) Close() error {
	defer func() { _ = a.logger.Sync() }()
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func newRoller(cfg config.DiceConfig) dice.Roller {
	if cfg.Seed != 0 {
		return dice.NewRandomRoller(dice.NewSeededSource(cfg.Seed))
	}
	return dice.NewRandomRoller(dice.NewCryptoSource())
}
