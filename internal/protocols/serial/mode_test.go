package serial

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/firmproto/internal/core/domain"
)

func TestMode_Layout(t *testing.T) {
	m := &Mode{
		ControlMask:      Settable,
		Timeout:          1000000,
		BaudRate:         115200,
		ReceiveFifoDepth: 16,
		DataBits:         8,
		Parity:           EvenParity,
		StopBits:         TwoStopBits,
	}
	b, err := m.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, b, ModeSize)
	assert.Equal(t, uint64(115200), binary.LittleEndian.Uint64(b[8:16]))
	assert.Equal(t, uint32(EvenParity), binary.LittleEndian.Uint32(b[24:28]))

	var got Mode
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, *m, got)

	assert.ErrorIs(t, got.UnmarshalBinary(b[:31]), domain.ErrBadBufferSize)
}

func TestTierFor(t *testing.T) {
	tier, err := TierFor(Revision)
	require.NoError(t, err)
	assert.Equal(t, TierBase, tier)

	tier, err = TierFor(Revision1p1)
	require.NoError(t, err)
	assert.Equal(t, TierDeviceType, tier)
	assert.Equal(t, "device-type", tier.String())

	_, err = TierFor(0)
	assert.ErrorIs(t, err, domain.ErrUnsupported)
}

func TestValidation(t *testing.T) {
	assert.True(t, ValidDataBits(0))
	assert.True(t, ValidDataBits(5))
	assert.True(t, ValidDataBits(8))
	assert.False(t, ValidDataBits(4))
	assert.False(t, ValidDataBits(9))

	assert.True(t, SpaceParity.Valid())
	assert.False(t, Parity(6).Valid())
	assert.False(t, StopBits(4).Valid())

	assert.True(t, (DataTerminalReady | RequestToSend).IsSettable())
	assert.False(t, ClearToSend.IsSettable())
}

func TestGUIDs(t *testing.T) {
	assert.Equal(t, "bb25cf6f-f1d4-11d2-9a0c-0090273fc1fd", ProtocolGUID.String())
	assert.Equal(t, "6ad9a60f-5815-4c7c-8a10-5053d2bf7a1b", TerminalDeviceTypeGUID.String())

	b := ProtocolGUID.Bytes()
	assert.Equal(t, []byte{0x6f, 0xcf, 0x25, 0xbb, 0xd4, 0xf1, 0xd2, 0x11}, b[:8])
	assert.Equal(t, []byte{0x9a, 0x0c, 0x00, 0x90, 0x27, 0x3f, 0xc1, 0xfd}, b[8:])
}
