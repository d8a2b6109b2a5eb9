//go:build cgo

package firmware

/*
#include "firmware.h"
*/
import "C"

import (
	"context"
	"time"
	"unsafe"

	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
)

// Ensure Event implements the interface.
var _ driven.Event = (*Event)(nil)

// pollInterval is how often Wait re-checks a firmware event.
const pollInterval = time.Millisecond

// Events holds the signal-event and check-event services of a boot
// services table.
type Events struct {
	ops *C.fw_event_ops
}

// NewEvents wraps a block of two function pointers: signal-event followed
// by check-event.
func NewEvents(ops unsafe.Pointer) (*Events, error) {
	if ops == nil {
		return nil, ErrNilTable
	}
	return &Events{ops: (*C.fw_event_ops)(ops)}, nil
}

// Wrap returns the Event for a firmware event handle.
func (e *Events) Wrap(handle unsafe.Pointer) *Event {
	return &Event{ops: e.ops, h: C.fw_event(handle)}
}

// Event is a firmware event handle.
type Event struct {
	ops *C.fw_event_ops
	h   C.fw_event
}

// Handle returns the raw event handle.
func (e *Event) Handle() unsafe.Pointer {
	return unsafe.Pointer(e.h)
}

// Signal signals the event.
func (e *Event) Signal() {
	C.fw_signal_event(e.ops, e.h)
}

// Signaled checks the event. Checking a signalled event clears it, as the
// firmware service does.
func (e *Event) Signaled() bool {
	return domain.Status(C.fw_check_event(e.ops, e.h)) == domain.Success
}

// Wait polls the event until it is signalled or ctx is done.
func (e *Event) Wait(ctx context.Context) error {
	if e.Signaled() {
		return nil
	}
	t := time.NewTicker(pollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if e.Signaled() {
				return nil
			}
		}
	}
}
