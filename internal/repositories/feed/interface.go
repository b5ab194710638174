package feed

//go:generate mockgen -destination=mocks/mock_repository.go -package=mockfeed -source=interface.go

import (
	"context"
	"time"

	"github.com/storycraft/roller/internal/dice"
	"github.com/storycraft/roller/internal/domain/roll"
)

// EntryKind tells what produced a feed entry
type EntryKind string

const (
	KindAction  EntryKind = "action"
	KindFormula EntryKind = "formula"
)

// Entry is one roll posted to a table's feed
type Entry struct {
	ID            string              `json:"id"`
	FeedID        string              `json:"feed_id"`
	Kind          EntryKind           `json:"kind"`
	CharacterID   string              `json:"character_id,omitempty"`
	CharacterName string              `json:"character_name,omitempty"`
	Result        *roll.Result        `json:"result,omitempty"`
	Formula       *dice.FormulaResult `json:"formula,omitempty"`
	Message       *roll.Message       `json:"message"`
	CreatedAt     time.Time           `json:"created_at"`
}

// Repository is an append-only, time ordered log of rolls per feed
type Repository interface {
	// Append adds an entry to its feed
	Append(ctx context.Context, entry *Entry) error

	// List returns up to limit entries of a feed, newest first
	List(ctx context.Context, feedID string, limit int) ([]*Entry, error)
}
