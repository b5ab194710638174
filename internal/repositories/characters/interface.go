package characters

//go:generate mockgen -destination=mocks/mock_repository.go -package=mockcharacters -source=interface.go

import (
	"context"

	"github.com/storycraft/roller/internal/domain/character"
)

// Repository defines the interface for character sheet persistence
type Repository interface {
	// Create stores a new character and stamps CreatedAt/UpdatedAt
	Create(ctx context.Context, char *character.Character) error

	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*character.Character, error)

	// ListByOwner retrieves all characters of a player
	ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error)

	// Update replaces an existing character and stamps UpdatedAt
	Update(ctx context.Context, char *character.Character) error

	// Delete removes a character
	Delete(ctx context.Context, id string) error
}
