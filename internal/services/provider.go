package services

import (
	"go.uber.org/zap"

	"github.com/storycraft/roller/internal/dice"
	"github.com/storycraft/roller/internal/events"
	"github.com/storycraft/roller/internal/observability"
	"github.com/storycraft/roller/internal/repositories/characters"
	"github.com/storycraft/roller/internal/repositories/feed"
	characterService "github.com/storycraft/roller/internal/services/character"
	rollService "github.com/storycraft/roller/internal/services/roll"
)

// Provider holds all service instances
type Provider struct {
	CharacterService characterService.Service
	RollService      rollService.Service
	Bus              *events.Bus
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	CharacterRepository characters.Repository
	FeedRepository      feed.Repository
	Roller              dice.Roller
	Metrics             *observability.Metrics
	Logger              *zap.Logger
	FeedLimit           int

	// Listeners are subscribed to executed rolls next to the feed recorder
	Listeners []events.EventListener
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Use in-memory repositories if none provided
	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		charRepo = characters.NewInMemoryRepository()
	}

	feedRepo := cfg.FeedRepository
	if feedRepo == nil {
		feedRepo = feed.NewInMemoryRepository()
	}

	bus := events.NewBus(logger.Named("events"))
	for _, listener := range cfg.Listeners {
		bus.Subscribe(events.EventTypeRollExecuted, listener)
	}

	charService := characterService.NewService(&characterService.ServiceConfig{
		Repository: charRepo,
		Logger:     logger.Named("characters"),
	})

	rolls := rollService.NewService(&rollService.ServiceConfig{
		CharacterService: charService,
		FeedRepository:   feedRepo,
		Bus:              bus,
		Roller:           cfg.Roller,
		Metrics:          cfg.Metrics,
		Logger:           logger.Named("rolls"),
		FeedLimit:        cfg.FeedLimit,
	})

	return &Provider{
		CharacterService: charService,
		RollService:      rolls,
		Bus:              bus,
	}
}
