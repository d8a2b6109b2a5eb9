//go:build cgo

package firmware

/*
#include "firmware.h"
*/
import "C"

import (
	"unsafe"

	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/protocols/pointer"
)

// Ensure Pointer implements the interface.
var _ driven.SimplePointer = (*Pointer)(nil)

// Pointer is a borrowed firmware simple pointer table.
type Pointer struct {
	p      *C.fw_pointer
	events *Events
}

// NewPointer wraps a pointer to a firmware simple pointer table. events
// services the table's wait-for-input event.
func NewPointer(p unsafe.Pointer, events *Events) (*Pointer, error) {
	if p == nil || events == nil {
		return nil, ErrNilTable
	}
	return &Pointer{p: (*C.fw_pointer)(p), events: events}, nil
}

// Reset calls the reset slot.
func (p *Pointer) Reset(extendedVerification bool) domain.Status {
	var ext C.uint8_t
	if extendedVerification {
		ext = 1
	}
	return domain.Status(C.fw_pointer_reset(p.p, ext))
}

// GetState calls the get-state slot.
func (p *Pointer) GetState(state []byte) domain.Status {
	if len(state) < pointer.StateSize {
		return domain.ErrorStatus(domain.CodeBadBufferSize)
	}
	return domain.Status(C.fw_pointer_get_state(p.p, unsafe.Pointer(&state[0])))
}

// WaitForInput returns the table's input event.
func (p *Pointer) WaitForInput() driven.Event {
	return p.events.Wrap(unsafe.Pointer(p.p.wait_for_input))
}

// Mode returns the firmware-owned mode record.
func (p *Pointer) Mode() []byte {
	if p.p.mode == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p.p.mode), pointer.ModeSize)
}
