package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/firmproto/internal/core/domain"
)

func TestParseGuid(t *testing.T) {
	g, err := ParseGuid("964e5b22-6459-11d2-8e39-00a0c969723b")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x964e5b22), g.Data1)
	assert.Equal(t, uint16(0x6459), g.Data2)
	assert.Equal(t, uint16(0x11d2), g.Data3)
	assert.Equal(t, [8]uint8{0x8e, 0x39, 0x00, 0xa0, 0xc9, 0x69, 0x72, 0x3b}, g.Data4)

	assert.Equal(t, "964e5b22-6459-11d2-8e39-00a0c969723b", FormatGuid(g))
	assert.Equal(t, g.String(), FormatGuid(g))
}

func TestParseGuid_Invalid(t *testing.T) {
	_, err := ParseGuid("not-a-guid")
	assert.Error(t, err)
}

func TestPutGuid(t *testing.T) {
	g := domain.GuidFromFields(0x01020304, 0x0506, 0x0708, 9, 10, [6]uint8{11, 12, 13, 14, 15, 16})
	b := make([]byte, 20)
	PutGuid(b, g)
	assert.Equal(t, []byte{4, 3, 2, 1, 6, 5, 8, 7, 9, 10, 11, 12, 13, 14, 15, 16, 0, 0, 0, 0}, b)
}
