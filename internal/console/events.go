package console

import (
	"github.com/zjrosen/lineconsole/internal/buffer"
	"github.com/zjrosen/lineconsole/internal/dispatch"
	"github.com/zjrosen/lineconsole/internal/pubsub"
)

// Console event types.
const (
	WriteEvent   = pubsub.WriteEvent
	NewLineEvent = pubsub.NewLineEvent
	ExecuteEvent = pubsub.ExecuteEvent
	ClearEvent   = pubsub.ClearEvent
)

// Event is the payload of every console event. Which fields are set
// depends on the event type:
//
//	write    Text, Color (after Transform)
//	newline  Line (the new current line)
//	clear    Line (the fresh current line)
//	execute  Exec
type Event struct {
	Text  string
	Color string
	Line  *buffer.Line
	Exec  dispatch.Execution
}

// Listener receives console events synchronously.
type Listener = pubsub.Listener[*Console, Event]

// Subscription identifies a registered Listener.
type Subscription = pubsub.Subscription
