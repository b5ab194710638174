package feed

import (
	"context"
	"encoding/json"
	"sync"

	rerr "github.com/storycraft/roller/internal/errors"
)

// InMemoryRepository keeps feeds in process memory
type InMemoryRepository struct {
	mu    sync.RWMutex
	feeds map[string][][]byte
}

// NewInMemoryRepository creates a new in-memory feed repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{feeds: make(map[string][][]byte)}
}

// Append adds an entry to its feed
func (r *InMemoryRepository) Append(ctx context.Context, entry *Entry) error {
	if err := validate(entry); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return rerr.Wrap(err, "failed to marshal feed entry")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// keep the slice sorted by CreatedAt; equal timestamps stay in append order
	feed := r.feeds[entry.FeedID]
	pos := len(feed)
	for pos > 0 {
		var prev Entry
		if err := json.Unmarshal(feed[pos-1], &prev); err != nil {
			return rerr.Wrap(err, "failed to unmarshal feed entry")
		}
		if !prev.CreatedAt.After(entry.CreatedAt) {
			break
		}
		pos--
	}
	feed = append(feed, nil)
	copy(feed[pos+1:], feed[pos:])
	feed[pos] = data
	r.feeds[entry.FeedID] = feed
	return nil
}

// List returns up to limit entries of a feed, newest first
func (r *InMemoryRepository) List(ctx context.Context, feedID string, limit int) ([]*Entry, error) {
	if feedID == "" {
		return nil, rerr.InvalidArgument("feed ID is required")
	}
	if limit <= 0 {
		return nil, rerr.InvalidArgumentf("limit must be positive, got %d", limit)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	feed := r.feeds[feedID]
	entries := make([]*Entry, 0, min(limit, len(feed)))
	for i := len(feed) - 1; i >= 0 && len(entries) < limit; i-- {
		var entry Entry
		if err := json.Unmarshal(feed[i], &entry); err != nil {
			return nil, rerr.Wrap(err, "failed to unmarshal feed entry")
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}
