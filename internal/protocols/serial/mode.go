package serial

import (
	"encoding/binary"
	"fmt"

	"github.com/custodia-labs/firmproto/internal/core/domain"
)

// ModeSize is the size of a Mode record.
const ModeSize = 32

// Mode is the provider's current serial configuration.
//
// Wire format (32 bytes):
//
//	Offset  Size  Field
//	0       4     ControlMask       control bits the device supports
//	4       4     Timeout           microseconds per read/write
//	8       8     BaudRate          0 means the device's designed speed
//	16      4     ReceiveFifoDepth
//	20      4     DataBits
//	24      4     Parity
//	28      4     StopBits
type Mode struct {
	ControlMask      Control
	Timeout          uint32
	BaudRate         uint64
	ReceiveFifoDepth uint32
	DataBits         uint32
	Parity           Parity
	StopBits         StopBits
}

// MarshalBinary encodes the record.
func (m *Mode) MarshalBinary() ([]byte, error) {
	b := make([]byte, ModeSize)
	binary.LittleEndian.PutUint32(b[0:4], uint32(m.ControlMask))
	binary.LittleEndian.PutUint32(b[4:8], m.Timeout)
	binary.LittleEndian.PutUint64(b[8:16], m.BaudRate)
	binary.LittleEndian.PutUint32(b[16:20], m.ReceiveFifoDepth)
	binary.LittleEndian.PutUint32(b[20:24], m.DataBits)
	binary.LittleEndian.PutUint32(b[24:28], uint32(m.Parity))
	binary.LittleEndian.PutUint32(b[28:32], uint32(m.StopBits))
	return b, nil
}

// UnmarshalBinary decodes the record.
func (m *Mode) UnmarshalBinary(b []byte) error {
	if len(b) < ModeSize {
		return fmt.Errorf("serial: mode needs %d bytes, got %d: %w", ModeSize, len(b), domain.ErrBadBufferSize)
	}
	*m = Mode{
		ControlMask:      Control(binary.LittleEndian.Uint32(b[0:4])),
		Timeout:          binary.LittleEndian.Uint32(b[4:8]),
		BaudRate:         binary.LittleEndian.Uint64(b[8:16]),
		ReceiveFifoDepth: binary.LittleEndian.Uint32(b[16:20]),
		DataBits:         binary.LittleEndian.Uint32(b[20:24]),
		Parity:           Parity(binary.LittleEndian.Uint32(b[24:28])),
		StopBits:         StopBits(binary.LittleEndian.Uint32(b[28:32])),
	}
	return nil
}
