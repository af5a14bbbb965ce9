package pubsub

import (
	"errors"
	"fmt"
)

// Listener handles a synchronously emitted event. owner is the instance
// the Bus was created for.
type Listener[C, T any] func(owner C, payload T) error

// Subscription identifies a registered listener for Off.
type Subscription struct {
	eventType EventType
	id        uint64
}

type busEntry[C, T any] struct {
	id uint64
	fn Listener[C, T]
}

// Bus is a synchronous event emitter. Emit runs every listener registered
// for the event type, in registration order, on the calling goroutine.
// A Bus is not safe for concurrent use.
type Bus[C, T any] struct {
	owner     C
	nextID    uint64
	listeners map[EventType][]busEntry[C, T]
}

// NewBus creates a Bus whose listeners receive owner as their context.
func NewBus[C, T any](owner C) *Bus[C, T] {
	return &Bus[C, T]{
		owner:     owner,
		listeners: make(map[EventType][]busEntry[C, T]),
	}
}

// On registers fn for eventType.
func (b *Bus[C, T]) On(eventType EventType, fn Listener[C, T]) Subscription {
	b.nextID++
	b.listeners[eventType] = append(b.listeners[eventType], busEntry[C, T]{id: b.nextID, fn: fn})
	return Subscription{eventType: eventType, id: b.nextID}
}

// Off removes a listener. Returns false if it was not registered.
func (b *Bus[C, T]) Off(sub Subscription) bool {
	entries := b.listeners[sub.eventType]
	for i, e := range entries {
		if e.id == sub.id {
			b.listeners[sub.eventType] = append(entries[:i:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// Emit invokes the listeners for eventType with payload.
// A failing listener does not stop the ones after it; every failure is
// returned joined into a single error.
func (b *Bus[C, T]) Emit(eventType EventType, payload T) error {
	// Snapshot so listeners may call On/Off while being notified.
	entries := b.listeners[eventType]
	if len(entries) == 0 {
		return nil
	}
	snapshot := make([]busEntry[C, T], len(entries))
	copy(snapshot, entries)

	var errs []error
	for i, e := range snapshot {
		if err := e.fn(b.owner, payload); err != nil {
			errs = append(errs, fmt.Errorf("%s listener %d: %w", eventType, i, err))
		}
	}
	return errors.Join(errs...)
}

// ListenerCount returns the number of listeners registered for eventType.
func (b *Bus[C, T]) ListenerCount(eventType EventType) int {
	return len(b.listeners[eventType])
}
