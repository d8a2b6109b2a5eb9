package driven

import "context"

// Event is a provider notification primitive. A signalled event stays
// signalled; observing it through Signaled or Wait establishes a
// happens-before edge with everything the signaller wrote before Signal.
type Event interface {
	// Signal marks the event signalled.
	Signal()

	// Signaled reports whether the event has been signalled, without blocking.
	Signaled() bool

	// Wait blocks until the event is signalled or ctx is done.
	Wait(ctx context.Context) error
}
