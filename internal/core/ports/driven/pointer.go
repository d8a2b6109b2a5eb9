package driven

import "github.com/custodia-labs/firmproto/internal/core/domain"

// SimplePointer is a borrowed simple pointer call table.
type SimplePointer interface {
	// Reset resets the device.
	Reset(extendedVerification bool) domain.Status

	// GetState writes the exact-layout State record into state.
	GetState(state []byte) domain.Status

	// WaitForInput returns the event signalled when input is available.
	WaitForInput() Event

	// Mode returns the provider-owned Mode record in its exact layout.
	Mode() []byte
}
