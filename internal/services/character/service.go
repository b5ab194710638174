// Package character manages StoryCraft character sheets
package character

//go:generate mockgen -destination=mock/mock_service.go -package=mockcharacter -source=service.go Service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/storycraft/roller/internal/domain/character"
	rerr "github.com/storycraft/roller/internal/errors"
	"github.com/storycraft/roller/internal/repositories/characters"
	"github.com/storycraft/roller/internal/uuid"
)

// Repository is an alias for the character repository interface
type Repository = characters.Repository

// Service defines the character service interface
type Service interface {
	// Create creates a new sheet from the given details
	Create(ctx context.Context, input *CreateInput) (*character.Character, error)

	// Get retrieves a sheet by ID
	Get(ctx context.Context, id string) (*character.Character, error)

	// ListByOwner lists all sheets of a player
	ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error)

	// Import stores a sheet read from a JSON or YAML document
	Import(ctx context.Context, input *ImportInput) (*character.Character, error)

	// Export renders a stored sheet as JSON or YAML
	Export(ctx context.Context, id string, format Format) ([]byte, error)

	// Save persists changes to an existing sheet, such as spent HP and MP.
	// Callers that read, modify and save a sheet do so inside WithLock.
	Save(ctx context.Context, char *character.Character) error

	// WithLock runs fn while holding the lock for the sheet with the given
	// ID. ToggleBuff and Delete take the same lock.
	WithLock(ctx context.Context, id string, fn func(ctx context.Context) error) error

	// ToggleBuff activates or deactivates a buff by name
	ToggleBuff(ctx context.Context, id, buffName string, active bool) (*character.Character, error)

	// Delete removes a sheet
	Delete(ctx context.Context, id string) error
}

// CreateInput contains all data needed to create a sheet
type CreateInput struct {
	OwnerID       string
	Name          string
	SystemVersion character.SystemVersion // defaults to storycraft
	Level         int
	Attributes    map[string]int // base values
	MaxHP         int
	MaxMP         int
}

// ImportInput is a sheet document. OwnerID, when set, overrides the owner
// stored in the document.
type ImportInput struct {
	OwnerID string
	Data    []byte
	Format  Format
}

// service implements the Service interface
type service struct {
	repository    Repository
	uuidGenerator uuid.Generator
	logger        *zap.Logger
	locks         *keyedLocker
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository    Repository     // Required
	UUIDGenerator uuid.Generator // Optional
	Logger        *zap.Logger    // Optional
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.Repository == nil {
		panic("repository is required")
	}

	svc := &service{
		repository:    cfg.Repository,
		uuidGenerator: cfg.UUIDGenerator,
		logger:        cfg.Logger,
		locks:         newKeyedLocker(),
	}
	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Create creates a new sheet with full HP and MP
func (s *service) Create(ctx context.Context, input *CreateInput) (*character.Character, error) {
	if input == nil {
		return nil, rerr.InvalidArgument("input is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, rerr.InvalidArgument("character name is required")
	}
	if input.OwnerID == "" {
		return nil, rerr.InvalidArgument("owner ID is required")
	}
	if input.MaxHP < 0 || input.MaxMP < 0 {
		return nil, rerr.Validationf("max HP and MP cannot be negative")
	}

	version := input.SystemVersion
	if version == "" {
		version = character.SystemStoryCraft
	}

	attrs := make(map[string]*character.AttributeScore, len(input.Attributes))
	for name, base := range input.Attributes {
		attrs[name] = &character.AttributeScore{Base: base}
	}

	char := &character.Character{
		ID:            s.uuidGenerator.New(),
		OwnerID:       input.OwnerID,
		Name:          strings.TrimSpace(input.Name),
		SystemVersion: version,
		Level:         input.Level,
		Attributes:    attrs,
		Main: character.MainAttributes{
			HP: character.Pool{Current: input.MaxHP, Max: input.MaxHP},
			MP: character.Pool{Current: input.MaxMP, Max: input.MaxMP},
		},
	}

	if err := s.repository.Create(ctx, char); err != nil {
		return nil, rerr.Wrap(err, "failed to create character")
	}

	s.logger.Info("character created",
		zap.String("character_id", char.ID),
		zap.String("owner_id", char.OwnerID))
	return char, nil
}

// Get retrieves a sheet by ID
func (s *service) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, rerr.InvalidArgument("character ID is required")
	}

	char, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, rerr.Wrapf(err, "failed to get character '%s'", id)
	}
	return char, nil
}

// ListByOwner lists all sheets of a player
func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, rerr.InvalidArgument("owner ID is required")
	}

	chars, err := s.repository.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, rerr.Wrap(err, "failed to list characters")
	}
	return chars, nil
}

// Import decodes, normalizes and stores a sheet. Sheets without a valid
// UUID get a new one.
func (s *service) Import(ctx context.Context, input *ImportInput) (*character.Character, error) {
	if input == nil {
		return nil, rerr.InvalidArgument("input is required")
	}

	char, err := DecodeSheet(input.Data, input.Format)
	if err != nil {
		return nil, err
	}

	if input.OwnerID != "" {
		char.OwnerID = input.OwnerID
	}
	if !uuid.Valid(char.ID) {
		char.ID = s.uuidGenerator.New()
	}
	if err := normalize(char); err != nil {
		return nil, err
	}

	if err := s.repository.Create(ctx, char); err != nil {
		return nil, rerr.Wrap(err, "failed to import character")
	}

	s.logger.Info("character imported",
		zap.String("character_id", char.ID),
		zap.Int("actions", len(char.Actions)),
		zap.Int("buffs", len(char.Buffs)))
	return char, nil
}

// Export renders a stored sheet
func (s *service) Export(ctx context.Context, id string, format Format) ([]byte, error) {
	char, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return EncodeSheet(char, format)
}

// Save persists changes to an existing sheet
func (s *service) Save(ctx context.Context, char *character.Character) error {
	if char == nil || char.ID == "" {
		return rerr.InvalidArgument("character with ID is required")
	}
	if err := s.repository.Update(ctx, char); err != nil {
		return rerr.Wrapf(err, "failed to save character '%s'", char.ID)
	}
	return nil
}

// WithLock serializes read-modify-write cycles on one sheet
func (s *service) WithLock(ctx context.Context, id string, fn func(ctx context.Context) error) error {
	if id == "" {
		return rerr.InvalidArgument("character ID is required")
	}
	unlock, err := s.locks.lock(ctx, id)
	if err != nil {
		return rerr.WrapWithCode(err, rerr.CodeUnavailable, "failed to lock character").
			WithMeta("character_id", id)
	}
	defer unlock()
	return fn(ctx)
}

// ToggleBuff activates or deactivates a buff by name
func (s *service) ToggleBuff(ctx context.Context, id, buffName string, active bool) (*character.Character, error) {
	var char *character.Character
	err := s.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		char, err = s.Get(ctx, id)
		if err != nil {
			return err
		}

		buff, ok := char.FindBuff(buffName)
		if !ok {
			return rerr.NotFoundf("buff '%s' not found", buffName).
				WithMeta("character_id", id)
		}
		if buff.IsActive == active {
			return nil
		}
		buff.IsActive = active

		if err := s.repository.Update(ctx, char); err != nil {
			return rerr.Wrap(err, "failed to update character")
		}

		s.logger.Debug("buff toggled",
			zap.String("character_id", id),
			zap.String("buff", buff.Name),
			zap.Bool("active", active))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return char, nil
}

// Delete removes a sheet
func (s *service) Delete(ctx context.Context, id string) error {
	return s.WithLock(ctx, id, func(ctx context.Context) error {
		if err := s.repository.Delete(ctx, id); err != nil {
			return rerr.Wrapf(err, "failed to delete character '%s'", id)
		}
		return nil
	})
}

// normalize fills defaults and clamps HP and MP into range
func normalize(char *character.Character) error {
	char.Name = strings.TrimSpace(char.Name)
	if char.Name == "" {
		return rerr.Validationf("character name is required")
	}
	if char.OwnerID == "" {
		return rerr.Validationf("character owner is required")
	}
	if char.SystemVersion == "" {
		char.SystemVersion = character.SystemStoryCraft
	}

	for _, pool := range []*character.Pool{&char.Main.HP, &char.Main.MP} {
		if pool.Max < 0 {
			return rerr.Validationf("max HP and MP cannot be negative")
		}
		pool.Current = min(max(pool.Current, 0), pool.Max)
	}

	for _, action := range char.Actions {
		if action == nil || strings.TrimSpace(action.Name) == "" {
			return rerr.Validationf("every action needs a name")
		}
	}
	for _, buff := range char.Buffs {
		if buff == nil || strings.TrimSpace(buff.Name) == "" {
			return rerr.Validationf("every buff needs a name")
		}
	}
	return nil
}
