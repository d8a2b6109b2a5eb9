package emulated

import (
	"sync"

	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/protocols/pointer"
)

// Ensure Pointer implements the interface.
var _ driven.SimplePointer = (*Pointer)(nil)

// Pointer is an in-memory pointing device fed with Push.
type Pointer struct {
	*slots

	mu      sync.Mutex
	raw     []byte
	pending *pointer.State
	input   *Event
}

// NewPointer creates a device with the given mode.
func NewPointer(mode pointer.Mode) *Pointer {
	raw, _ := mode.MarshalBinary()
	return &Pointer{slots: newSlots(), raw: raw, input: NewEvent()}
}

// Push adds movement. Movement accumulates until the next GetState, while
// the button state is the most recent one. The input event is signalled.
func (p *Pointer) Push(st pointer.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		p.pending = &pointer.State{}
	}
	p.pending.RelativeMovementX += st.RelativeMovementX
	p.pending.RelativeMovementY += st.RelativeMovementY
	p.pending.RelativeMovementZ += st.RelativeMovementZ
	p.pending.LeftButton = st.LeftButton
	p.pending.RightButton = st.RightButton
	p.input.Signal()
}

// Reset drops pending input.
func (p *Pointer) Reset(extendedVerification bool) domain.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if st, ok := p.enter("reset"); ok {
		return st
	}
	p.pending = nil
	p.input.Reset()
	return domain.Success
}

// GetState writes the accumulated movement, or returns NotReady when there
// has been none since the last call.
func (p *Pointer) GetState(state []byte) domain.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if st, ok := p.enter("get-state"); ok {
		return st
	}
	if len(state) < pointer.StateSize {
		return fail(domain.CodeBadBufferSize)
	}
	if p.pending == nil {
		return fail(domain.CodeNotReady)
	}
	b, _ := p.pending.MarshalBinary()
	copy(state, b)
	p.pending = nil
	p.input.Reset()
	return domain.Success
}

// WaitForInput returns the input event.
func (p *Pointer) WaitForInput() driven.Event {
	return p.input
}

// Mode returns the mode record.
func (p *Pointer) Mode() []byte {
	return p.raw
}
