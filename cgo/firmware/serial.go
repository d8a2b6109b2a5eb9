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
	"github.com/custodia-labs/firmproto/internal/protocols/serial"
)

// Ensure Serial implements the interface.
var _ driven.SerialIO = (*Serial)(nil)

// Serial is a borrowed firmware serial I/O table.
type Serial struct {
	p *C.fw_serial
}

// NewSerial wraps a pointer to a firmware serial I/O table.
func NewSerial(p unsafe.Pointer) (*Serial, error) {
	if p == nil {
		return nil, ErrNilTable
	}
	return &Serial{p: (*C.fw_serial)(p)}, nil
}

// Revision reads the leading revision field.
func (s *Serial) Revision() domain.Revision {
	return domain.Revision(s.p.revision)
}

// Reset calls the reset slot.
func (s *Serial) Reset() domain.Status {
	return domain.Status(C.fw_serial_reset(s.p))
}

// SetAttributes calls the set-attributes slot.
func (s *Serial) SetAttributes(baudRate uint64, receiveFifoDepth, timeout, parity, dataBits, stopBits uint32) domain.Status {
	return domain.Status(C.fw_serial_set_attributes(s.p, C.uint64_t(baudRate), C.uint32_t(receiveFifoDepth),
		C.uint32_t(timeout), C.uint32_t(parity), C.uint32_t(dataBits), C.uint32_t(stopBits)))
}

// SetControl calls the set-control slot.
func (s *Serial) SetControl(control uint32) domain.Status {
	return domain.Status(C.fw_serial_set_control(s.p, C.uint32_t(control)))
}

// GetControl calls the get-control slot.
func (s *Serial) GetControl(control *uint32) domain.Status {
	var c C.uint32_t
	st := domain.Status(C.fw_serial_get_control(s.p, &c))
	*control = uint32(c)
	return st
}

// Write calls the write slot.
func (s *Serial) Write(bufferSize *uint, buffer []byte) domain.Status {
	size := C.uintptr_t(*bufferSize)
	st := domain.Status(C.fw_serial_write(s.p, &size, bytePtr(buffer)))
	*bufferSize = uint(size)
	return st
}

// Read calls the read slot.
func (s *Serial) Read(bufferSize *uint, buffer []byte) domain.Status {
	size := C.uintptr_t(*bufferSize)
	st := domain.Status(C.fw_serial_read(s.p, &size, bytePtr(buffer)))
	*bufferSize = uint(size)
	return st
}

// Mode returns the firmware-owned mode record.
func (s *Serial) Mode() []byte {
	if s.p.mode == nil {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(s.p.mode)), serial.ModeSize)
}

// DeviceType reads the device type field. Only valid from revision 1.1.
func (s *Serial) DeviceType() domain.Guid {
	if s.p.device_type == nil {
		return domain.Guid{}
	}
	return goGuid((*C.fw_guid)(unsafe.Pointer(s.p.device_type)))
}
