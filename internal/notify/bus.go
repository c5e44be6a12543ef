// Package notify is the change-notification port between the match store
// and any view rendering it.
package notify

import (
	"sync"

	"github.com/trialmatch/backend/internal/domain"
)

// EventType says what happened to the match collection.
type EventType string

const (
	EventAdded   EventType = "match_added"
	EventRemoved EventType = "match_removed"
	EventCleared EventType = "matches_cleared"
	EventRefresh EventType = "matches_refreshed"
)

// Event carries the full collection after the change so subscribers never
// need a follow-up read.
type Event struct {
	Type    EventType
	Matches []domain.Trial
}

// Handler receives published events. Handlers run synchronously on the
// publisher's goroutine and must not block.
type Handler func(Event)

// Bus is an in-process publish/subscribe channel.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers a handler and returns its unsubscribe function.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// Publish delivers the event to every current subscriber.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
