package driven

import "github.com/custodia-labs/firmproto/internal/core/domain"

// SerialIO is a borrowed serial I/O call table.
type SerialIO interface {
	// Revision returns the leading revision field.
	Revision() domain.Revision

	// Reset resets the device.
	Reset() domain.Status

	// SetAttributes sets baud rate, FIFO depth, timeout, parity, data bits
	// and stop bits. Zero selects the device default for each.
	SetAttributes(baudRate uint64, receiveFifoDepth, timeout, parity, dataBits, stopBits uint32) domain.Status

	// SetControl sets the control bits.
	SetControl(control uint32) domain.Status

	// GetControl stores the control and status bits.
	GetControl(control *uint32) domain.Status

	// Write writes *bufferSize bytes and stores the count written.
	Write(bufferSize *uint, buffer []byte) domain.Status

	// Read reads up to *bufferSize bytes and stores the count read.
	Read(bufferSize *uint, buffer []byte) domain.Status

	// Mode returns the provider-owned Mode record in its exact layout. The
	// provider may change it at any time.
	Mode() []byte

	// DeviceType returns the device type GUID. Revision 1.1 and later.
	DeviceType() domain.Guid
}
