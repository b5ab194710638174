package roll

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/storycraft/roller/internal/events"
	"github.com/storycraft/roller/internal/repositories/feed"
)

const recordTimeout = 5 * time.Second

// FeedRecorder appends executed rolls to their feed before any notifier
// sees them
type FeedRecorder struct {
	repository feed.Repository
	logger     *zap.Logger
}

// NewFeedRecorder creates the feed listener
func NewFeedRecorder(repository feed.Repository, logger *zap.Logger) *FeedRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedRecorder{repository: repository, logger: logger}
}

func (r *FeedRecorder) ID() string    { return "feed-recorder" }
func (r *FeedRecorder) Priority() int { return events.PriorityRecord }

// HandleEvent stores the event's entry. Failures are kept on the event.
func (r *FeedRecorder) HandleEvent(event events.Event) error {
	rolled, ok := event.(*events.RollExecutedEvent)
	if !ok || rolled.Entry == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := r.repository.Append(ctx, rolled.Entry); err != nil {
		rolled.RecordError = err
		return nil
	}

	r.logger.Debug("roll recorded",
		zap.String("entry_id", rolled.Entry.ID),
		zap.String("feed_id", rolled.Entry.FeedID))
	return nil
}
