package characters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/storycraft/roller/internal/domain/character"
	rerr "github.com/storycraft/roller/internal/errors"
)

// redisRepo implements the Repository interface using Redis. Sheets are
// stored as JSON under character:<id>; owner:<id>:characters indexes them.
type redisRepo struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TimeProvider TimeProvider
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}
	if cfg.TimeProvider == nil {
		cfg.TimeProvider = &RealTimeProvider{}
	}

	return &redisRepo{
		client:       cfg.Client,
		timeProvider: cfg.TimeProvider,
	}
}

func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

func (r *redisRepo) ownerCharactersKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:characters", ownerID)
}

// Create stores a new character
func (r *redisRepo) Create(ctx context.Context, char *character.Character) error {
	if err := validate(char); err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, r.key(char.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check character existence: %w", err)
	}
	if exists > 0 {
		return rerr.AlreadyExistsf("character with ID '%s' already exists", char.ID).
			WithMeta("character_id", char.ID)
	}

	now := r.timeProvider.Now()
	char.CreatedAt = now
	char.UpdatedAt = now

	return r.set(ctx, char)
}

// Get retrieves a character by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, rerr.InvalidArgument("character ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, rerr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	var char character.Character
	if err := json.Unmarshal(jsonData, &char); err != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", err)
	}
	return &char, nil
}

// ListByOwner loads every indexed character of the owner concurrently.
// Index entries whose sheet is gone are skipped.
func (r *redisRepo) ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, rerr.InvalidArgument("owner ID is required")
	}

	ids, err := r.client.SMembers(ctx, r.ownerCharactersKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}

	loaded := make([]*character.Character, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			char, err := r.Get(gctx, id)
			if rerr.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get character %s: %w", id, err)
			}
			loaded[i] = char
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*character.Character, 0, len(loaded))
	for _, char := range loaded {
		if char != nil {
			result = append(result, char)
		}
	}
	return result, nil
}

// Update replaces an existing character
func (r *redisRepo) Update(ctx context.Context, char *character.Character) error {
	if err := validate(char); err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, r.key(char.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check character existence: %w", err)
	}
	if exists == 0 {
		return rerr.NotFoundf("character with ID '%s' not found", char.ID).
			WithMeta("character_id", char.ID)
	}

	char.UpdatedAt = r.timeProvider.Now()
	return r.set(ctx, char)
}

// Delete removes a character and its index entry
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	char, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.SRem(ctx, r.ownerCharactersKey(char.OwnerID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}

func (r *redisRepo) set(ctx context.Context, char *character.Character) error {
	jsonData, err := json.Marshal(char)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(char.ID), string(jsonData), 0)
	pipe.SAdd(ctx, r.ownerCharactersKey(char.OwnerID), char.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store character: %w", err)
	}
	return nil
}

func validate(char *character.Character) error {
	if char == nil {
		return rerr.InvalidArgument("character cannot be nil")
	}
	if char.ID == "" {
		return rerr.InvalidArgument("character ID is required")
	}
	if char.OwnerID == "" {
		return rerr.InvalidArgument("character owner ID is required")
	}
	return nil
}
