package driving

import (
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/protocols/pointer"
)

// PointerDevice is an acquired simple pointer table.
type PointerDevice interface {
	// Reset resets the device.
	Reset(extendedVerification bool) error

	// State returns the movement since the previous call. It fails with
	// domain.ErrNotReady when nothing moved.
	State() (pointer.State, error)

	// Mode returns a copy of the device mode.
	Mode() (pointer.Mode, error)

	// WaitForInput returns the event signalled when input is available.
	WaitForInput() driven.Event
}
