// Package dispatch parses a submitted line into a command and its
// arguments, finds the handler registered for the command and hands it a
// completion continuation that reports the result back to the console.
package dispatch

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Fallback is the command table key consulted when a command has no
// handler of its own.
const Fallback = "no command"

// ErrInvalidCommandName is returned when registering an empty name or a
// name containing spaces (other than Fallback).
var ErrInvalidCommandName = errors.New("invalid command name")

// Handler runs a command. It must eventually call complete, either before
// returning or later from the console's driving loop.
type Handler interface {
	Handle(complete Complete, args, command string)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(complete Complete, args, command string)

// Handle calls f.
func (f HandlerFunc) Handle(complete Complete, args, command string) {
	f(complete, args, command)
}

// Table maps command names to handlers. The zero value is not usable; use
// NewTable.
type Table struct {
	handlers map[string]Handler
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{handlers: make(map[string]Handler)}
}

func validName(name string) error {
	if name == Fallback {
		return nil
	}
	if name == "" || strings.ContainsAny(name, " ") {
		return fmt.Errorf("%w: %q", ErrInvalidCommandName, name)
	}
	return nil
}

// Set registers or replaces the handler for name.
func (t *Table) Set(name string, h Handler) error {
	if err := validName(name); err != nil {
		return err
	}
	if h == nil {
		delete(t.handlers, name)
		return nil
	}
	t.handlers[name] = h
	return nil
}

// Remove unregisters name. Removing an unknown name is a no-op.
func (t *Table) Remove(name string) {
	delete(t.handlers, name)
}

// Replace swaps the whole table for handlers. Nothing changes if any name
// is invalid.
func (t *Table) Replace(handlers map[string]Handler) error {
	for name := range handlers {
		if err := validName(name); err != nil {
			return err
		}
	}
	next := make(map[string]Handler, len(handlers))
	for name, h := range handlers {
		if h != nil {
			next[name] = h
		}
	}
	t.handlers = next
	return nil
}

// Lookup returns the handler for name, falling back to the Fallback entry.
// fallback reports whether the Fallback entry was used.
func (t *Table) Lookup(name string) (h Handler, fallback bool) {
	if h, ok := t.handlers[name]; ok {
		return h, false
	}
	if h, ok := t.handlers[Fallback]; ok {
		return h, true
	}
	return nil, false
}

// Names returns the registered names in sorted order.
func (t *Table) Names() []string {
	return slices.Sorted(maps.Keys(t.handlers))
}

// Len returns the number of registered handlers.
func (t *Table) Len() int { return len(t.handlers) }
