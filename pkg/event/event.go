// Package event provides a lightweight notification system for UI clients.
//
// Design principles:
// - Events carry identities (paths), never cached tree contents
// - Each event type is a separate Go type for type safety
// - Clients call HTTP APIs to fetch actual data after receiving notifications
package event

import (
	"sync"
)

// Event is the interface all event types must implement.
type Event interface {
	// EventName returns the unique name for this event type (e.g., "fs.deleted")
	EventName() string
}

// Listener is a callback function for handling events.
type Listener func(Event)

type registration struct {
	fn Listener
}

// Emitter manages event subscriptions and dispatching. Construct one per
// server and pass it to the components that emit or subscribe; there is no
// package-level instance.
type Emitter struct {
	mu           sync.RWMutex
	listeners    map[string][]*registration // eventName -> listeners
	allListeners []*registration            // listeners for all events
}

// NewEmitter creates a new event emitter.
func NewEmitter() *Emitter {
	return &Emitter{
		listeners: make(map[string][]*registration),
	}
}

// On subscribes to a specific event type.
// Returns an unsubscribe function.
func (e *Emitter) On(eventName string, fn Listener) func() {
	reg := &registration{fn: fn}
	e.mu.Lock()
	e.listeners[eventName] = append(e.listeners[eventName], reg)
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		listeners := e.listeners[eventName]
		for i, r := range listeners {
			if r == reg {
				e.listeners[eventName] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// OnAny subscribes to all events.
func (e *Emitter) OnAny(fn Listener) func() {
	reg := &registration{fn: fn}
	e.mu.Lock()
	e.allListeners = append(e.allListeners, reg)
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, r := range e.allListeners {
			if r == reg {
				e.allListeners = append(e.allListeners[:i], e.allListeners[i+1:]...)
				break
			}
		}
	}
}

// Emit dispatches an event to all matching listeners.
func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	// Copy listeners to avoid holding lock during callbacks
	specific := make([]*registration, len(e.listeners[ev.EventName()]))
	copy(specific, e.listeners[ev.EventName()])
	all := make([]*registration, len(e.allListeners))
	copy(all, e.allListeners)
	e.mu.RUnlock()

	for _, r := range specific {
		r.fn(ev)
	}
	for _, r := range all {
		r.fn(ev)
	}
}
