package serial

import (
	"fmt"

	"github.com/custodia-labs/firmproto/internal/core/domain"
)

// ProtocolGUID identifies the serial I/O protocol.
var ProtocolGUID = domain.GuidFromFields(0xBB25CF6F, 0xF1D4, 0x11D2, 0x9A, 0x0C,
	[6]uint8{0x00, 0x90, 0x27, 0x3F, 0xC1, 0xFD})

// TerminalDeviceTypeGUID is the device type of a serial terminal.
var TerminalDeviceTypeGUID = domain.GuidFromFields(0x6ad9a60f, 0x5815, 0x4c7c, 0x8a, 0x10,
	[6]uint8{0x50, 0x53, 0xd2, 0xbf, 0x7a, 0x1b})

// Revisions of the serial I/O call table.
const (
	Revision    domain.Revision = 0x00010000
	Revision1p1 domain.Revision = 0x00010001
)

// Tier is the set of fields safe to use on a table.
type Tier uint8

const (
	// TierBase covers reset, set-attributes, set/get-control, write, read and mode.
	TierBase Tier = iota + 1
	// TierDeviceType adds the device type GUID.
	TierDeviceType
)

// TierFor resolves the tier of an observed revision.
func TierFor(rev domain.Revision) (Tier, error) {
	switch {
	case rev.AtLeast(Revision1p1):
		return TierDeviceType, nil
	case rev.AtLeast(Revision):
		return TierBase, nil
	default:
		return 0, domain.NewUnsupported("serial.acquire",
			fmt.Sprintf("revision %s below %s", rev, Revision))
	}
}

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierBase:
		return "base"
	case TierDeviceType:
		return "device-type"
	default:
		return "none"
	}
}

// Parity is the parity setting.
type Parity uint32

// Parity values.
const (
	DefaultParity Parity = iota
	NoParity
	EvenParity
	OddParity
	MarkParity
	SpaceParity
)

// Valid reports whether p is a defined parity.
func (p Parity) Valid() bool {
	return p <= SpaceParity
}

// StopBits is the stop bit setting.
type StopBits uint32

// Stop bit values.
const (
	DefaultStopBits StopBits = iota
	OneStopBit
	OneFiveStopBits
	TwoStopBits
)

// Valid reports whether s is a defined stop bit setting.
func (s StopBits) Valid() bool {
	return s <= TwoStopBits
}

// Control is the control and status bit set.
type Control uint32

// Control bits.
const (
	DataTerminalReady         Control = 0x0001
	RequestToSend             Control = 0x0002
	ClearToSend               Control = 0x0010
	DataSetReady              Control = 0x0020
	RingIndicate              Control = 0x0040
	CarrierDetect             Control = 0x0080
	InputBufferEmpty          Control = 0x0100
	OutputBufferEmpty         Control = 0x0200
	HardwareLoopbackEnable    Control = 0x1000
	SoftwareLoopbackEnable    Control = 0x2000
	HardwareFlowControlEnable Control = 0x4000

	// Settable is the set of bits accepted by set-control.
	Settable = DataTerminalReady | RequestToSend | HardwareLoopbackEnable |
		SoftwareLoopbackEnable | HardwareFlowControlEnable
)

// IsSettable reports whether c only carries bits accepted by set-control.
func (c Control) IsSettable() bool {
	return c&^Settable == 0
}

// ValidDataBits reports whether n is 0 (device default) or 5..8.
func ValidDataBits(n uint32) bool {
	return n == 0 || (n >= 5 && n <= 8)
}
