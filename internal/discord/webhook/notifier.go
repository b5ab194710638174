package webhook

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/storycraft/roller/internal/domain/roll"
	"github.com/storycraft/roller/internal/events"
	"github.com/storycraft/roller/internal/observability"
)

const sendTimeout = 10 * time.Second

// Sender posts a roll message somewhere people can see it
type Sender interface {
	Send(ctx context.Context, msg *roll.Message, author string, at time.Time) error
}

// Notifier forwards executed rolls to a Sender. A failed post is stored on
// the event and never stops propagation.
type Notifier struct {
	sender  Sender
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewNotifier creates a roll listener backed by sender
func NewNotifier(sender Sender, metrics *observability.Metrics, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{sender: sender, metrics: metrics, logger: logger}
}

func (n *Notifier) ID() string    { return "webhook-notifier" }
func (n *Notifier) Priority() int { return events.PriorityNotify }

// HandleEvent posts RollExecutedEvent entries; other events are ignored
func (n *Notifier) HandleEvent(event events.Event) error {
	rolled, ok := event.(*events.RollExecutedEvent)
	if !ok || rolled.Entry == nil || rolled.Entry.Message == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	entry := rolled.Entry
	if err := n.sender.Send(ctx, entry.Message, entry.CharacterName, entry.CreatedAt); err != nil {
		n.logger.Warn("webhook dispatch failed",
			zap.String("entry_id", entry.ID),
			zap.String("feed_id", entry.FeedID),
			zap.Error(err))
		n.metrics.Dispatch(observability.DispatchFailed)
		rolled.DispatchError = err
		return nil
	}

	n.metrics.Dispatch(observability.DispatchSent)
	return nil
}
