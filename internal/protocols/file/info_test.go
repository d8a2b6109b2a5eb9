package file

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/firmproto/internal/abi"
	"github.com/custodia-labs/firmproto/internal/core/domain"
)

func sampleInfo(name string) *Info {
	return &Info{
		FileSize:     1234,
		PhysicalSize: 1536,
		CreateTime:   abi.Time{Year: 2024, Month: 5, Day: 1, TimeZone: abi.UnspecifiedTimezone},
		ModificationTime: abi.Time{
			Year: 2024, Month: 5, Day: 2, Hour: 8, TimeZone: 60, Daylight: abi.DaylightInDST,
		},
		Attribute: Archive | ReadOnly,
		FileName:  name,
	}
}

func TestInfo_Layout(t *testing.T) {
	info := sampleInfo("a.txt")
	b, err := info.MarshalBinary()
	require.NoError(t, err)

	assert.Len(t, b, InfoHeaderSize+2*6)
	assert.Equal(t, uint64(len(b)), binary.LittleEndian.Uint64(b[0:8]))
	assert.Equal(t, uint64(1234), binary.LittleEndian.Uint64(b[8:16]))
	assert.Equal(t, uint64(1536), binary.LittleEndian.Uint64(b[16:24]))
	assert.Equal(t, uint16(2024), binary.LittleEndian.Uint16(b[24:26]))
	assert.Equal(t, byte(2), b[59])
	assert.Equal(t, uint64(Archive|ReadOnly), binary.LittleEndian.Uint64(b[72:80]))
	assert.Equal(t, []byte{'a', 0}, b[80:82])
}

func TestInfo_RoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 4096} {
		info := sampleInfo(strings.Repeat("n", n))
		b, err := info.MarshalBinary()
		require.NoError(t, err)
		assert.Len(t, b, InfoHeaderSize+2*(n+1))

		got, err := DecodeInfo(b)
		require.NoError(t, err)
		assert.Equal(t, *info, got)
	}
}

func TestInfo_RejectsLyingSize(t *testing.T) {
	b, err := sampleInfo("x").MarshalBinary()
	require.NoError(t, err)

	big := append([]byte(nil), b...)
	binary.LittleEndian.PutUint64(big[0:8], uint64(len(b))+64)
	_, err = DecodeInfo(big)
	assert.ErrorIs(t, err, domain.ErrBadBufferSize)

	small := append([]byte(nil), b...)
	binary.LittleEndian.PutUint64(small[0:8], 12)
	_, err = DecodeInfo(small)
	assert.ErrorIs(t, err, abi.ErrSizeBelowHeader)

	_, err = DecodeInfo(b[:40])
	assert.ErrorIs(t, err, abi.ErrShortBuffer)
}

func TestEncodeInfoN(t *testing.T) {
	b, err := EncodeInfoN(sampleInfo("abc"), 16)
	require.NoError(t, err)
	assert.Len(t, b, InfoHeaderSize+32)
	// the declared size stays the real size
	assert.Equal(t, uint64(InfoHeaderSize+8), binary.LittleEndian.Uint64(b[0:8]))

	got, err := DecodeInfo(b)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.FileName)

	_, err = EncodeInfoN(sampleInfo("abcdef"), 4)
	assert.ErrorIs(t, err, abi.ErrCapacity)
}

func TestSystemInfo_Layout(t *testing.T) {
	si := &SystemInfo{
		ReadOnly:    true,
		VolumeSize:  1 << 20,
		FreeSpace:   4096,
		BlockSize:   512,
		VolumeLabel: "BOOT",
	}
	b, err := si.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, b, SystemInfoHeaderSize+10)
	assert.Equal(t, byte(1), b[8])
	assert.Equal(t, uint64(1<<20), binary.LittleEndian.Uint64(b[16:24]))
	assert.Equal(t, uint32(512), binary.LittleEndian.Uint32(b[32:36]))

	got, err := DecodeSystemInfo(b)
	require.NoError(t, err)
	assert.Equal(t, *si, got)
}

func TestSystemVolumeLabel(t *testing.T) {
	l := &SystemVolumeLabel{VolumeLabel: "DATA"}
	size, err := l.Size()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), size)

	b, err := l.MarshalBinary()
	require.NoError(t, err)

	var got SystemVolumeLabel
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, "DATA", got.VolumeLabel)

	assert.ErrorIs(t, got.UnmarshalBinary(b[:8]), abi.ErrUnterminated)
}
