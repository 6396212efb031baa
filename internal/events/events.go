// Package events is an in-process bus for chat lifecycle events.
package events

import (
	"context"
	"errors"
	"sync"
)

// Name identifies a lifecycle event.
type Name string

const (
	InboundRendered    Name = "inbound_rendered"
	OutboundRendered   Name = "outbound_rendered"
	MessageRegenerated Name = "message_regenerated"
)

// Event carries the transcript index of the message it concerns.
type Event struct {
	Name  Name
	Index int
}

// Handler reacts to an event.
type Handler func(ctx context.Context, ev Event) error

// Bus dispatches events to subscribed handlers. Publish is synchronous:
// handlers run in subscription order on the caller's goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Name][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Name][]Handler)}
}

// Subscribe registers h for events named name.
func (b *Bus) Subscribe(name Name, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Publish delivers ev to every handler subscribed to its name and returns
// their errors joined. A failing handler does not stop the others.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[ev.Name]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
