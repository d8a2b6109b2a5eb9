package services

import (
	"sync"

	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/core/ports/driving"
	"github.com/custodia-labs/firmproto/internal/logger"
	"github.com/custodia-labs/firmproto/internal/protocols/pointer"
)

// Ensure Pointer implements the interface.
var _ driving.PointerDevice = (*Pointer)(nil)

// Pointer wraps a borrowed simple pointer table. The table has no revision
// field, so every slot is always callable.
type Pointer struct {
	mu    sync.Mutex
	table driven.SimplePointer
}

// AcquirePointer wraps a borrowed table.
func AcquirePointer(table driven.SimplePointer) (*Pointer, error) {
	if table == nil {
		return nil, domain.NewInvalidParameter("pointer.acquire", "nil table")
	}
	return &Pointer{table: table}, nil
}

// Reset resets the device.
func (p *Pointer) Reset(extendedVerification bool) error {
	const op = "pointer.reset"
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.table.Reset(extendedVerification)
	logger.Call(op, s)
	_, err := domain.CheckOp(op, s)
	return err
}

// State returns the movement since the previous call.
func (p *Pointer) State() (pointer.State, error) {
	const op = "pointer.get-state"
	p.mu.Lock()
	defer p.mu.Unlock()

	raw := make([]byte, pointer.StateSize)
	s := p.table.GetState(raw)
	logger.Call(op, s)
	if _, err := domain.CheckOp(op, s); err != nil {
		return pointer.State{}, err
	}
	var st pointer.State
	if err := st.UnmarshalBinary(raw); err != nil {
		return pointer.State{}, providerLayoutError(op, err)
	}
	return st, nil
}

// Mode returns a copy of the device mode.
func (p *Pointer) Mode() (pointer.Mode, error) {
	p.mu.Lock()
	raw := append([]byte(nil), p.table.Mode()...)
	p.mu.Unlock()

	var m pointer.Mode
	if err := m.UnmarshalBinary(raw); err != nil {
		return pointer.Mode{}, providerLayoutError("pointer.mode", err)
	}
	return m, nil
}

// WaitForInput returns the event signalled when input is available.
func (p *Pointer) WaitForInput() driven.Event {
	return p.table.WaitForInput()
}
