package events

import (
	"github.com/storycraft/roller/internal/domain/character"
	"github.com/storycraft/roller/internal/repositories/feed"
)

// RollExecutedEvent carries a finished roll to its sinks. Sinks never fail
// the roll; they report through RecordError and DispatchError.
type RollExecutedEvent struct {
	BaseEvent
	Entry     *feed.Entry
	Character *character.Character // nil for formula rolls

	RecordError   error
	DispatchError error
}

// NewRollExecutedEvent wraps a feed entry
func NewRollExecutedEvent(entry *feed.Entry, char *character.Character) *RollExecutedEvent {
	return &RollExecutedEvent{
		BaseEvent: BaseEvent{Type: EventTypeRollExecuted},
		Entry:     entry,
		Character: char,
	}
}
