package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	rerr "github.com/storycraft/roller/internal/errors"
)

// redisRepo keeps each feed in a sorted set feed:<id> scored by the entry's
// unix millis
type redisRepo struct {
	client redis.UniversalClient
}

// NewRedis creates a new Redis-backed feed repository
func NewRedis(client redis.UniversalClient) Repository {
	if client == nil {
		panic("Redis client cannot be nil")
	}
	return &redisRepo{client: client}
}

func (r *redisRepo) key(feedID string) string {
	return fmt.Sprintf("feed:%s", feedID)
}

// Append adds an entry to its feed
func (r *redisRepo) Append(ctx context.Context, entry *Entry) error {
	if err := validate(entry); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal feed entry: %w", err)
	}

	err = r.client.ZAdd(ctx, r.key(entry.FeedID), redis.Z{
		Score:  float64(entry.CreatedAt.UnixMilli()),
		Member: string(data),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to append feed entry: %w", err)
	}
	return nil
}

// List returns up to limit entries of a feed, newest first
func (r *redisRepo) List(ctx context.Context, feedID string, limit int) ([]*Entry, error) {
	if feedID == "" {
		return nil, rerr.InvalidArgument("feed ID is required")
	}
	if limit <= 0 {
		return nil, rerr.InvalidArgumentf("limit must be positive, got %d", limit)
	}

	members, err := r.client.ZRevRange(ctx, r.key(feedID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list feed entries: %w", err)
	}

	entries := make([]*Entry, 0, len(members))
	for _, member := range members {
		var entry Entry
		if err := json.Unmarshal([]byte(member), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal feed entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

func validate(entry *Entry) error {
	if entry == nil {
		return rerr.InvalidArgument("feed entry cannot be nil")
	}
	if entry.ID == "" {
		return rerr.InvalidArgument("feed entry ID is required")
	}
	if entry.FeedID == "" {
		return rerr.InvalidArgument("feed ID is required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return nil
}
