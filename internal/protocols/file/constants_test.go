package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/firmproto/internal/core/domain"
)

func TestTierFor(t *testing.T) {
	tier, err := TierFor(Revision)
	require.NoError(t, err)
	assert.Equal(t, TierBase, tier)

	tier, err = TierFor(Revision2)
	require.NoError(t, err)
	assert.Equal(t, TierAsync, tier)

	tier, err = TierFor(0xFFFFFFFF)
	require.NoError(t, err)
	assert.Equal(t, TierAsync, tier)

	_, err = TierFor(0xFFFF)
	assert.ErrorIs(t, err, domain.ErrUnsupported)
}

func TestMode_Valid(t *testing.T) {
	assert.True(t, ModeRead.Valid())
	assert.True(t, (ModeRead | ModeWrite).Valid())
	assert.True(t, (ModeRead | ModeWrite | ModeCreate).Valid())
	assert.False(t, ModeWrite.Valid())
	assert.False(t, (ModeRead | ModeCreate).Valid())
	assert.False(t, Mode(0).Valid())
}

func TestAttribute_String(t *testing.T) {
	assert.Equal(t, "none", Attribute(0).String())
	assert.Equal(t, "read-only|archive", (ReadOnly | Archive).String())
	assert.Equal(t, "directory|0x100", (Directory | 0x100).String())
	assert.True(t, Directory.IsDir())
	assert.False(t, Attribute(0x100).Valid())
}

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		in   string
		want Attribute
	}{
		{"", 0},
		{"none", 0},
		{"archive", Archive},
		{"read-only|hidden", ReadOnly | Hidden},
		{"System, Archive", System | Archive},
		{"0x10", Directory},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := ParseAttribute(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}

	_, err := ParseAttribute("sparse")
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestInfoIDs(t *testing.T) {
	assert.Equal(t, "09576e92-6d3f-11d2-8e39-00a0c969723b", InfoID.String())
	assert.Equal(t, "09576e93-6d3f-11d2-8e39-00a0c969723b", SystemInfoID.String())
	assert.Equal(t, "db47d7d3-fe81-11d3-9a35-0090273fc14d", SystemVolumeLabelID.String())
}
