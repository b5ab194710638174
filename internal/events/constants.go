package events

// Event type constants
const (
	// EventTypeRollExecuted fires once an action or formula roll is final
	EventTypeRollExecuted EventType = "roll_executed"
)

// Priority levels; lower runs first
const (
	PriorityRecord = 100 // persist to the feed
	PriorityNotify = 200 // external sinks such as the chat webhook
)
