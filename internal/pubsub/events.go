// Package pubsub provides typed publish/subscribe: a synchronous Bus whose
// listeners run in registration order on the emitting goroutine, and an
// asynchronous Broker that fans events out over buffered channels.
package pubsub

import (
	"context"
	"time"
)

// EventType names the kind of event being published.
type EventType string

const (
	// CreatedEvent announces a new entry (log lines).
	CreatedEvent EventType = "created"

	// WriteEvent announces text written into the current line.
	WriteEvent EventType = "write"
	// NewLineEvent announces that a new current line was started.
	NewLineEvent EventType = "newline"
	// ExecuteEvent announces that a command handler completed.
	ExecuteEvent EventType = "execute"
	// ClearEvent announces that the line log was reset.
	ClearEvent EventType = "clear"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
