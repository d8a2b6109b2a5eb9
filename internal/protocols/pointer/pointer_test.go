package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/firmproto/internal/core/domain"
)

func TestState_RoundTrip(t *testing.T) {
	s := &State{RelativeMovementX: -12, RelativeMovementY: 40, LeftButton: true}
	b, err := s.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, b, StateSize)
	assert.Equal(t, []byte{0xF4, 0xFF, 0xFF, 0xFF}, b[0:4])
	assert.Equal(t, byte(1), b[12])

	var got State
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, *s, got)

	assert.ErrorIs(t, got.UnmarshalBinary(b[:8]), domain.ErrBadBufferSize)
}

func TestMode_RoundTrip(t *testing.T) {
	m := &Mode{ResolutionX: 8, ResolutionY: 8, LeftButton: true, RightButton: true}
	b, err := m.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, b, ModeSize)

	var got Mode
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, *m, got)

	assert.True(t, got.HasAxis(0))
	assert.False(t, got.HasAxis(2))
	assert.False(t, got.HasAxis(3))
}

func TestMillimetres(t *testing.T) {
	assert.Equal(t, 2.5, Millimetres(20, 8))
	assert.Equal(t, 0.0, Millimetres(20, 0))
}
