package characters

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/storycraft/roller/internal/domain/character"
	rerr "github.com/storycraft/roller/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the character repository.
// Useful for testing and for running without Redis.
type InMemoryRepository struct {
	mu           sync.RWMutex
	characters   map[string][]byte
	timeProvider TimeProvider
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		characters:   make(map[string][]byte),
		timeProvider: &RealTimeProvider{},
	}
}

// Create stores a new character
func (r *InMemoryRepository) Create(ctx context.Context, char *character.Character) error {
	if err := validate(char); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[char.ID]; exists {
		return rerr.AlreadyExistsf("character with ID '%s' already exists", char.ID).
			WithMeta("character_id", char.ID)
	}

	now := r.timeProvider.Now()
	char.CreatedAt = now
	char.UpdatedAt = now
	return r.store(char)
}

// Get retrieves a character by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, rerr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.characters[id]
	if !exists {
		return nil, rerr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	return decode(data)
}

// ListByOwner retrieves all characters for a specific owner, by name
func (r *InMemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, rerr.InvalidArgument("owner ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*character.Character
	for _, data := range r.characters {
		char, err := decode(data)
		if err != nil {
			return nil, err
		}
		if char.OwnerID == ownerID {
			result = append(result, char)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Update updates an existing character
func (r *InMemoryRepository) Update(ctx context.Context, char *character.Character) error {
	if err := validate(char); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[char.ID]; !exists {
		return rerr.NotFoundf("character with ID '%s' not found", char.ID).
			WithMeta("character_id", char.ID)
	}

	char.UpdatedAt = r.timeProvider.Now()
	return r.store(char)
}

// Delete removes a character
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return rerr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[id]; !exists {
		return rerr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}

	delete(r.characters, id)
	return nil
}

// store keeps the encoded sheet so callers never share maps or slices with
// the repository
func (r *InMemoryRepository) store(char *character.Character) error {
	data, err := json.Marshal(char)
	if err != nil {
		return rerr.Wrap(err, "failed to marshal character")
	}
	r.characters[char.ID] = data
	return nil
}

func decode(data []byte) (*character.Character, error) {
	var char character.Character
	if err := json.Unmarshal(data, &char); err != nil {
		return nil, rerr.Wrap(err, "failed to unmarshal character")
	}
	return &char, nil
}
