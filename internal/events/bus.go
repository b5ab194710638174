package events

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// EventListener processes events
type EventListener interface {
	HandleEvent(event Event) error
	Priority() int
	ID() string
}

// Bus manages event distribution
type Bus struct {
	listeners map[EventType][]EventListener
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewBus creates a new event bus
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		listeners: make(map[EventType][]EventListener),
		logger:    logger,
	}
}

// Subscribe adds a listener for specific event types
func (b *Bus) Subscribe(eventType EventType, listener EventListener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[eventType] = append(b.listeners[eventType], listener)
	b.sort(eventType)

	b.logger.Debug("subscribed listener",
		zap.String("listener", listener.ID()),
		zap.String("event", string(eventType)),
		zap.Int("priority", listener.Priority()))
}

// Unsubscribe removes a listener
func (b *Bus) Unsubscribe(eventType EventType, listenerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	listeners := b.listeners[eventType]
	for i, l := range listeners {
		if l.ID() != listenerID {
			continue
		}
		listeners[i] = listeners[len(listeners)-1]
		b.listeners[eventType] = listeners[:len(listeners)-1]
		b.sort(eventType)

		b.logger.Debug("unsubscribed listener",
			zap.String("listener", listenerID),
			zap.String("event", string(eventType)))
		return
	}
}

// Emit sends an event to all registered listeners in priority order. The
// first listener error stops propagation.
func (b *Bus) Emit(event Event) error {
	b.mu.RLock()
	listeners := make([]EventListener, len(b.listeners[event.GetType()]))
	copy(listeners, b.listeners[event.GetType()])
	b.mu.RUnlock()

	b.logger.Debug("emitting event",
		zap.String("event", string(event.GetType())),
		zap.Int("listeners", len(listeners)))

	for _, listener := range listeners {
		if event.IsCancelled() {
			b.logger.Debug("event cancelled, stopping propagation", zap.String("event", string(event.GetType())))
			break
		}

		if err := listener.HandleEvent(event); err != nil {
			return fmt.Errorf("listener %s failed: %w", listener.ID(), err)
		}
	}

	return nil
}

// Clear removes all listeners
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners = make(map[EventType][]EventListener)
}

// sort must be called with mu held
func (b *Bus) sort(eventType EventType) {
	sort.SliceStable(b.listeners[eventType], func(i, j int) bool {
		return b.listeners[eventType][i].Priority() < b.listeners[eventType][j].Priority()
	})
}
