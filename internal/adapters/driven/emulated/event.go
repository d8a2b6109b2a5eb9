package emulated

import (
	"context"
	"sync"

	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
)

// Ensure Event implements the interface.
var _ driven.Event = (*Event)(nil)

// Event is a channel-backed notification primitive. Closing the channel
// publishes every write made before Signal to whoever observes it.
type Event struct {
	mu sync.Mutex
	ch chan struct{}
	on bool
}

// NewEvent creates an unsignalled event.
func NewEvent() *Event {
	return &Event{ch: make(chan struct{})}
}

// Signal marks the event signalled. Signalling twice is a no-op.
func (e *Event) Signal() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.on {
		e.on = true
		close(e.ch)
	}
}

// Signaled reports whether the event is signalled.
func (e *Event) Signaled() bool {
	select {
	case <-e.channel():
		return true
	default:
		return false
	}
}

// Wait blocks until the event is signalled or ctx is done.
func (e *Event) Wait(ctx context.Context) error {
	select {
	case <-e.channel():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset returns a signalled event to the unsignalled state.
func (e *Event) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.on {
		e.on = false
		e.ch = make(chan struct{})
	}
}

func (e *Event) channel() chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ch
}
