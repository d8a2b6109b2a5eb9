package driving

import "context"

// Completion observes an accepted asynchronous operation. Completions of
// several operations on one handle may arrive in any order. There is no
// cancel: once accepted, the provider runs the operation to its end.
type Completion interface {
	// Wait blocks until the operation completes or ctx is done, then
	// returns the transferred byte count and the translated status.
	// A ctx error does not stop the operation.
	Wait(ctx context.Context) (int, error)

	// Poll reports whether the operation completed and, if so, its result.
	Poll() (done bool, n int, err error)
}

// OpenCompletion observes an accepted asynchronous open.
type OpenCompletion interface {
	// Wait blocks until the open completes or ctx is done.
	Wait(ctx context.Context) (FileHandle, error)

	// Poll reports whether the open completed and, if so, its result.
	Poll() (done bool, h FileHandle, err error)
}
