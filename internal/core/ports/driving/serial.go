package driving

import (
	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/protocols/serial"
)

// SerialAttributes are the settings applied by SetAttributes. Zero fields
// select the device default.
type SerialAttributes struct {
	BaudRate         uint64
	ReceiveFifoDepth uint32
	Timeout          uint32
	Parity           serial.Parity
	DataBits         uint32
	StopBits         serial.StopBits
}

// SerialPort is an acquired serial I/O table.
type SerialPort interface {
	// Tier returns the capability tier resolved at acquisition.
	Tier() serial.Tier

	// Warning returns the warning of the most recent call, if any.
	Warning() domain.Warning

	// Reset resets the device.
	Reset() error

	// SetAttributes applies attrs.
	SetAttributes(attrs SerialAttributes) error

	// SetControl sets the settable control bits.
	SetControl(c serial.Control) error

	// Control returns the control and status bits.
	Control() (serial.Control, error)

	// Write writes p and returns the count written.
	Write(p []byte) (int, error)

	// Read reads into p. On timeout it returns the bytes read so far with
	// domain.ErrTimeout.
	Read(p []byte) (int, error)

	// Mode returns a copy of the current mode.
	Mode() (serial.Mode, error)

	// DeviceType returns the device type GUID. Requires serial.TierDeviceType.
	DeviceType() (domain.Guid, error)
}
