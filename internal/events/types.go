package events

// EventType represents the type of roll event
type EventType string

// Event is the base interface for all events
type Event interface {
	GetType() EventType
	IsCancelled() bool
	Cancel()
}

// BaseEvent provides common implementation for all events
type BaseEvent struct {
	Type      EventType
	Cancelled bool
}

func (e *BaseEvent) GetType() EventType { return e.Type }
func (e *BaseEvent) IsCancelled() bool  { return e.Cancelled }
func (e *BaseEvent) Cancel()            { e.Cancelled = true }
