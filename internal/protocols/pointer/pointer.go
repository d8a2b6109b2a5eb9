package pointer

import (
	"encoding/binary"
	"fmt"

	"github.com/custodia-labs/firmproto/internal/core/domain"
)

// ProtocolGUID identifies the simple pointer protocol.
var ProtocolGUID = domain.GuidFromFields(0x31878c87, 0x0b75, 0x11d5, 0x9a, 0x4f,
	[6]uint8{0x00, 0x90, 0x27, 0x3f, 0xc1, 0x4d})

// ModeSize is the size of a Mode record.
const ModeSize = 32

// StateSize is the size of a State record.
const StateSize = 16

// Mode describes the device's resolution and buttons.
//
// Wire format (32 bytes):
//
//	Offset  Size  Field
//	0       8     ResolutionX   counts/mm, 0 means no x axis
//	8       8     ResolutionY
//	16      8     ResolutionZ
//	24      1     LeftButton
//	25      1     RightButton
//	26      6     (padding)
type Mode struct {
	ResolutionX uint64
	ResolutionY uint64
	ResolutionZ uint64
	LeftButton  bool
	RightButton bool
}

// HasAxis reports whether the axis (0, 1 or 2) is supported.
func (m Mode) HasAxis(axis int) bool {
	switch axis {
	case 0:
		return m.ResolutionX != 0
	case 1:
		return m.ResolutionY != 0
	case 2:
		return m.ResolutionZ != 0
	default:
		return false
	}
}

// MarshalBinary encodes the record.
func (m *Mode) MarshalBinary() ([]byte, error) {
	b := make([]byte, ModeSize)
	binary.LittleEndian.PutUint64(b[0:8], m.ResolutionX)
	binary.LittleEndian.PutUint64(b[8:16], m.ResolutionY)
	binary.LittleEndian.PutUint64(b[16:24], m.ResolutionZ)
	b[24] = boolByte(m.LeftButton)
	b[25] = boolByte(m.RightButton)
	return b, nil
}

// UnmarshalBinary decodes the record.
func (m *Mode) UnmarshalBinary(b []byte) error {
	if len(b) < ModeSize {
		return fmt.Errorf("pointer: mode needs %d bytes, got %d: %w", ModeSize, len(b), domain.ErrBadBufferSize)
	}
	*m = Mode{
		ResolutionX: binary.LittleEndian.Uint64(b[0:8]),
		ResolutionY: binary.LittleEndian.Uint64(b[8:16]),
		ResolutionZ: binary.LittleEndian.Uint64(b[16:24]),
		LeftButton:  b[24] != 0,
		RightButton: b[25] != 0,
	}
	return nil
}

// State is the movement since the previous get-state call.
//
// Wire format (16 bytes):
//
//	Offset  Size  Field
//	0       4     RelativeMovementX   signed counts
//	4       4     RelativeMovementY
//	8       4     RelativeMovementZ
//	12      1     LeftButton
//	13      1     RightButton
//	14      2     (padding)
type State struct {
	RelativeMovementX int32
	RelativeMovementY int32
	RelativeMovementZ int32
	LeftButton        bool
	RightButton       bool
}

// MarshalBinary encodes the record.
func (s *State) MarshalBinary() ([]byte, error) {
	b := make([]byte, StateSize)
	binary.LittleEndian.PutUint32(b[0:4], uint32(s.RelativeMovementX))
	binary.LittleEndian.PutUint32(b[4:8], uint32(s.RelativeMovementY))
	binary.LittleEndian.PutUint32(b[8:12], uint32(s.RelativeMovementZ))
	b[12] = boolByte(s.LeftButton)
	b[13] = boolByte(s.RightButton)
	return b, nil
}

// UnmarshalBinary decodes the record.
func (s *State) UnmarshalBinary(b []byte) error {
	if len(b) < StateSize {
		return fmt.Errorf("pointer: state needs %d bytes, got %d: %w", StateSize, len(b), domain.ErrBadBufferSize)
	}
	*s = State{
		RelativeMovementX: int32(binary.LittleEndian.Uint32(b[0:4])),
		RelativeMovementY: int32(binary.LittleEndian.Uint32(b[4:8])),
		RelativeMovementZ: int32(binary.LittleEndian.Uint32(b[8:12])),
		LeftButton:        b[12] != 0,
		RightButton:       b[13] != 0,
	}
	return nil
}

// Millimetres converts a relative movement to millimetres given the
// resolution of the axis. It returns 0 for an unsupported axis.
func Millimetres(counts int32, resolution uint64) float64 {
	if resolution == 0 {
		return 0
	}
	return float64(counts) / float64(resolution)
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
