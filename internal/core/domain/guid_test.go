package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fileInfoID = GuidFromFields(0x09576e92, 0x6d3f, 0x11d2, 0x8e, 0x39,
	[6]uint8{0x00, 0xa0, 0xc9, 0x69, 0x72, 0x3b})

func TestGuid_String(t *testing.T) {
	assert.Equal(t, "09576e92-6d3f-11d2-8e39-00a0c969723b", fileInfoID.String())
}

func TestGuid_Bytes(t *testing.T) {
	b := fileInfoID.Bytes()
	assert.Equal(t, []byte{0x92, 0x6e, 0x57, 0x09, 0x3f, 0x6d, 0xd2, 0x11}, b[:8])
	assert.Equal(t, []byte{0x8e, 0x39, 0x00, 0xa0, 0xc9, 0x69, 0x72, 0x3b}, b[8:])

	g, err := GuidFromBytes(b[:])
	require.NoError(t, err)
	assert.Equal(t, fileInfoID, g)
}

func TestGuidFromBytes_Short(t *testing.T) {
	_, err := GuidFromBytes(make([]byte, 15))
	assert.Error(t, err)
}

func TestGuid_IsZero(t *testing.T) {
	assert.True(t, Guid{}.IsZero())
	assert.False(t, fileInfoID.IsZero())
}

func TestRevision(t *testing.T) {
	r := Revision(0x00020001)
	assert.Equal(t, uint16(2), r.Major())
	assert.Equal(t, uint16(1), r.Minor())
	assert.Equal(t, "2.1 (0x00020001)", r.String())

	assert.True(t, r.AtLeast(0x00020000))
	assert.True(t, r.AtLeast(r))
	assert.False(t, Revision(0x0001FFFF).AtLeast(0x00020000))
	assert.True(t, Revision(0xFFFFFFFFFFFFFFFF).AtLeast(0x00020000))
}
