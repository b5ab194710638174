// Package roll runs character actions and free-text formulas, stores the
// results in a feed and announces them on the event bus.
package roll

//go:generate mockgen -destination=mock/mock_service.go -package=mockroll -source=service.go Service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/storycraft/roller/internal/dice"
	"github.com/storycraft/roller/internal/domain/character"
	"github.com/storycraft/roller/internal/domain/roll"
	"github.com/storycraft/roller/internal/domain/rulebook/storycraft"
	rerr "github.com/storycraft/roller/internal/errors"
	"github.com/storycraft/roller/internal/events"
	"github.com/storycraft/roller/internal/observability"
	"github.com/storycraft/roller/internal/repositories/characters"
	"github.com/storycraft/roller/internal/repositories/feed"
	charService "github.com/storycraft/roller/internal/services/character"
	"github.com/storycraft/roller/internal/uuid"
)

// DefaultFeedLimit caps feed listings when no limit is configured
const DefaultFeedLimit = 50

// Service defines the roll service interface
type Service interface {
	// ExecuteAction rolls a character action and spends its cost
	ExecuteAction(ctx context.Context, input *ExecuteActionInput) (*ExecuteActionOutput, error)

	// RollFormula rolls a free-text formula such as "2d6+3"
	RollFormula(ctx context.Context, input *RollFormulaInput) (*RollFormulaOutput, error)

	// ListFeed returns the newest entries of a feed
	ListFeed(ctx context.Context, feedID string, limit int) ([]*feed.Entry, error)
}

// ExecuteActionInput names the action to roll. FeedID defaults to the
// character ID.
type ExecuteActionInput struct {
	CharacterID string
	ActionName  string
	FeedID      string
}

// ExecuteActionOutput is a finished action roll. DispatchError and
// RecordError report sink failures; the roll itself still happened.
// Fallback holds the plain text to post by hand when the webhook failed.
type ExecuteActionOutput struct {
	Result    *roll.Result
	Message   *roll.Message
	Character *character.Character
	Entry     *feed.Entry

	RecordError   error
	DispatchError error
	Fallback      string
}

// RollFormulaInput is a free-text formula posted to a feed
type RollFormulaInput struct {
	Formula string
	FeedID  string
	Author  string
}

// RollFormulaOutput is a finished formula roll
type RollFormulaOutput struct {
	Result  *dice.FormulaResult
	Message *roll.Message
	Entry   *feed.Entry

	RecordError   error
	DispatchError error
	Fallback      string
}

type service struct {
	characterService charService.Service
	feedRepository   feed.Repository
	bus              *events.Bus
	evaluator        *roll.Evaluator
	roller           dice.Roller
	skills           *storycraft.SkillBonusCalculator
	uuidGenerator    uuid.Generator
	timeProvider     characters.TimeProvider
	metrics          *observability.Metrics
	logger           *zap.Logger
	feedLimit        int
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	CharacterService charService.Service     // Required
	FeedRepository   feed.Repository         // Required
	Bus              *events.Bus             // Optional, a private bus is created
	Roller           dice.Roller             // Optional, crypto random by default
	UUIDGenerator    uuid.Generator          // Optional
	TimeProvider     characters.TimeProvider // Optional
	Metrics          *observability.Metrics  // Optional
	Logger           *zap.Logger             // Optional
	FeedLimit        int                     // Optional, DefaultFeedLimit
}

// NewService creates a roll service and subscribes the feed recorder to its
// bus
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.CharacterService == nil {
		panic("character service is required")
	}
	if cfg.FeedRepository == nil {
		panic("feed repository is required")
	}

	svc := &service{
		characterService: cfg.CharacterService,
		feedRepository:   cfg.FeedRepository,
		bus:              cfg.Bus,
		skills:           storycraft.NewSkillBonusCalculator(),
		uuidGenerator:    cfg.UUIDGenerator,
		timeProvider:     cfg.TimeProvider,
		metrics:          cfg.Metrics,
		logger:           cfg.Logger,
		feedLimit:        cfg.FeedLimit,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.timeProvider == nil {
		svc.timeProvider = &characters.RealTimeProvider{}
	}
	if svc.feedLimit <= 0 {
		svc.feedLimit = DefaultFeedLimit
	}
	if svc.bus == nil {
		svc.bus = events.NewBus(svc.logger)
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller(nil)
	}
	svc.roller = dice.NewLoggedRoller(roller, svc.logger)
	svc.evaluator = roll.NewEvaluator(svc.roller)

	svc.bus.Subscribe(events.EventTypeRollExecuted, NewFeedRecorder(svc.feedRepository, svc.logger))
	return svc
}

// ExecuteAction loads the sheet, refuses actions it cannot pay for, rolls,
// applies the resource delta and emits the result. No dice are rolled for a
// blocked action.
func (s *service) ExecuteAction(ctx context.Context, input *ExecuteActionInput) (*ExecuteActionOutput, error) {
	if input == nil {
		return nil, rerr.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, rerr.InvalidArgument("character ID is required")
	}
	if strings.TrimSpace(input.ActionName) == "" {
		return nil, rerr.InvalidArgument("action name is required")
	}

	var (
		char   *character.Character
		result *roll.Result
		msg    *roll.Message
	)
	err := s.characterService.WithLock(ctx, input.CharacterID, func(ctx context.Context) error {
		var err error
		char, err = s.characterService.Get(ctx, input.CharacterID)
		if err != nil {
			return err
		}

		action, ok := char.FindAction(input.ActionName)
		if !ok {
			return rerr.NotFoundf("action '%s' not found", input.ActionName).
				WithMeta("character_id", char.ID)
		}

		result, msg, err = s.rollAction(ctx, char, action)
		return err
	})
	if err != nil {
		return nil, err
	}

	feedID := input.FeedID
	if feedID == "" {
		feedID = char.ID
	}
	entry := &feed.Entry{
		ID:            s.uuidGenerator.New(),
		FeedID:        feedID,
		Kind:          feed.KindAction,
		CharacterID:   char.ID,
		CharacterName: char.Name,
		Result:        result,
		Message:       msg,
		CreatedAt:     s.timeProvider.Now(),
	}

	event := s.emit(entry, char)
	s.metrics.RollExecuted(result.Total)

	s.logger.Info("action executed",
		zap.String("character_id", char.ID),
		zap.String("action", result.Action),
		zap.Int("total", result.Total),
		zap.Int("hp", char.Main.HP.Current),
		zap.Int("mp", char.Main.MP.Current))

	out := &ExecuteActionOutput{
		Result:        result,
		Message:       msg,
		Character:     char,
		Entry:         entry,
		RecordError:   event.RecordError,
		DispatchError: event.DispatchError,
	}
	if out.DispatchError != nil {
		out.Fallback = msg.PlainText()
	}
	return out, nil
}

// rollAction checks the cost, rolls and saves the resource delta. It runs
// under the sheet lock so the cost check sees the HP and MP it spends.
func (s *service) rollAction(ctx context.Context, char *character.Character, action *character.Action) (*roll.Result, *roll.Message, error) {
	buffs := char.ActiveBuffs()
	if err := roll.CheckAffordability(action, buffs, char.Main.HP.Current, char.Main.MP.Current); err != nil {
		s.metrics.RollBlocked()
		s.logger.Info("action blocked",
			zap.String("character_id", char.ID),
			zap.String("action", action.Name),
			zap.Error(err))
		return nil, nil, rerr.WrapWithCode(err, rerr.CodeFailedPrecondition, "cannot execute action").
			WithMeta("character_id", char.ID).
			WithMeta("action", action.Name)
	}

	evalInput := &roll.EvaluateInput{
		Action:     action,
		Attributes: char.AttributeSnapshot(),
		Buffs:      buffs,
	}
	if check, ok := action.SkillCheck(); ok {
		evalInput.SkillBonus = s.skills.ForCharacter(char, check.Skill).Total
	}

	result, err := s.evaluator.Evaluate(evalInput)
	if err != nil {
		s.metrics.RollFailed()
		return nil, nil, rerr.Wrapf(err, "failed to evaluate action '%s'", action.Name)
	}
	if len(result.Warnings) > 0 {
		s.logger.Warn("sheet fields ignored",
			zap.String("character_id", char.ID),
			zap.String("action", action.Name),
			zap.Strings("warnings", result.Warnings))
	}

	msg := roll.Format(result, action)

	if delta := result.ResourceDelta; delta.HP() != 0 || delta.MP() != 0 {
		char.Main = roll.ApplyResourceDelta(char.Main, delta)
		if err := s.characterService.Save(ctx, char); err != nil {
			s.metrics.RollFailed()
			return nil, nil, rerr.Wrap(err, "failed to save resources")
		}
	}
	return result, msg, nil
}

// RollFormula evaluates a formula with the safe arithmetic evaluator and
// posts it to a feed
func (s *service) RollFormula(ctx context.Context, input *RollFormulaInput) (*RollFormulaOutput, error) {
	if input == nil {
		return nil, rerr.InvalidArgument("input is required")
	}
	if strings.TrimSpace(input.Formula) == "" {
		return nil, rerr.InvalidArgument("formula is required")
	}
	if input.FeedID == "" {
		return nil, rerr.InvalidArgument("feed ID is required")
	}

	result, err := dice.EvaluateFormula(input.Formula, s.roller)
	if err != nil {
		if errors.Is(err, dice.ErrInvalidFormula) || errors.Is(err, dice.ErrInvalidDice) || errors.Is(err, dice.ErrDivisionByZero) {
			return nil, rerr.WrapWithCode(err, rerr.CodeInvalidArgument, "invalid formula")
		}
		s.metrics.RollFailed()
		return nil, rerr.Wrap(err, "failed to roll formula")
	}

	msg := roll.FormatFormula(result)
	entry := &feed.Entry{
		ID:            s.uuidGenerator.New(),
		FeedID:        input.FeedID,
		Kind:          feed.KindFormula,
		CharacterName: input.Author,
		Formula:       result,
		Message:       msg,
		CreatedAt:     s.timeProvider.Now(),
	}

	event := s.emit(entry, nil)
	s.metrics.RollExecuted(result.Total)

	out := &RollFormulaOutput{
		Result:        result,
		Message:       msg,
		Entry:         entry,
		RecordError:   event.RecordError,
		DispatchError: event.DispatchError,
	}
	if out.DispatchError != nil {
		out.Fallback = msg.PlainText()
	}
	return out, nil
}

// ListFeed returns up to limit entries, newest first. Limits outside
// (0, feedLimit] use feedLimit.
func (s *service) ListFeed(ctx context.Context, feedID string, limit int) ([]*feed.Entry, error) {
	if feedID == "" {
		return nil, rerr.InvalidArgument("feed ID is required")
	}
	if limit <= 0 || limit > s.feedLimit {
		limit = s.feedLimit
	}

	entries, err := s.feedRepository.List(ctx, feedID, limit)
	if err != nil {
		return nil, rerr.Wrapf(err, "failed to list feed '%s'", feedID)
	}
	return entries, nil
}

func (s *service) emit(entry *feed.Entry, char *character.Character) *events.RollExecutedEvent {
	event := events.NewRollExecutedEvent(entry, char)
	if err := s.bus.Emit(event); err != nil {
		s.logger.Warn("roll listener failed", zap.String("entry_id", entry.ID), zap.Error(err))
	}
	if event.RecordError != nil {
		s.logger.Error("roll not recorded in feed",
			zap.String("entry_id", entry.ID),
			zap.String("feed_id", entry.FeedID),
			zap.Error(event.RecordError))
	}
	return event
}
