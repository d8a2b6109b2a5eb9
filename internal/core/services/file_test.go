package services

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/firmproto/internal/adapters/driven/emulated"
	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/protocols/file"
)

func TestAcquireFile(t *testing.T) {
	_, err := AcquireFile(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	vol := emulated.NewVolume(emulated.VolumeConfig{Revision: 0xFFFF})
	_, err = AcquireFile(vol.OpenVolume())
	assert.ErrorIs(t, err, domain.ErrUnsupported)
	assert.Zero(t, vol.TotalCalls())

	_, root := newRoot(t, emulated.VolumeConfig{Revision: file.Revision})
	assert.Equal(t, file.TierBase, root.Tier())
	assert.Equal(t, file.Revision, root.Revision())
}

func TestFile_OpenWriteReadRoundTrip(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{})

	h, err := root.Open(`\EFI\notes.txt`, rwc, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, h)

	vol.AddDir(`EFI`)
	h, err = root.Open(`\EFI\notes.txt`, rwc, file.Archive)
	require.NoError(t, err)

	n, err := h.Write([]byte("hello firmware"))
	require.NoError(t, err)
	assert.Equal(t, 14, n)

	pos, err := h.Position()
	require.NoError(t, err)
	assert.Equal(t, uint64(14), pos)

	require.NoError(t, h.SetPosition(6))
	buf := make([]byte, 32)
	n, err = h.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "firmware", string(buf[:n]))

	n, err = h.Read(buf)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, h.Flush())
	require.NoError(t, h.Close())

	data, ok := vol.Contents(`EFI\notes.txt`)
	require.True(t, ok)
	assert.Equal(t, "hello firmware", string(data))
}

func TestFile_RoundTripSizes(t *testing.T) {
	for _, n := range []int{0, 1, 4096} {
		t.Run(fmt.Sprintf("%d bytes", n), func(t *testing.T) {
			_, root := newRoot(t, emulated.VolumeConfig{})
			h, err := root.Open("data.bin", rwc, 0)
			require.NoError(t, err)
			defer h.Close()

			want := bytes.Repeat([]byte{0xA5}, n)
			for i := range want {
				want[i] ^= byte(i)
			}
			written, err := h.Write(want)
			require.NoError(t, err)
			require.Equal(t, n, written)

			require.NoError(t, h.SetPosition(0))
			got := make([]byte, n)
			read, err := h.Read(got)
			require.NoError(t, err)
			assert.Equal(t, n, read)
			assert.Equal(t, want, got)
		})
	}
}

func TestFile_OpenRejectsBadArgumentsLocally(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{})

	tests := []struct {
		name  string
		file  string
		mode  file.Mode
		attrs file.Attribute
	}{
		{"create without write", "a", file.ModeRead | file.ModeCreate, 0},
		{"write only", "a", file.ModeWrite, 0},
		{"undefined attribute", "a", rwc, 0x100},
		{"embedded NUL", "a\x00b", file.ModeRead, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := root.Open(tt.file, tt.mode, tt.attrs)
			var e *domain.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, domain.KindInvalidParameter, e.Kind)
			assert.True(t, e.Local)
		})
	}
	assert.Zero(t, vol.Calls("open"))
}

func TestFile_ClosedHandlePanics(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{})
	h, err := root.Open("x", rwc, 0)
	require.NoError(t, err)
	require.NoError(t, h.Close())
	calls := vol.TotalCalls()

	assert.PanicsWithValue(t, errClosedHandle, func() { _, _ = h.Read(make([]byte, 4)) })
	assert.PanicsWithValue(t, errClosedHandle, func() { _ = h.Close() })
	assert.PanicsWithValue(t, errClosedHandle, func() { _, _ = h.Delete() })
	assert.Equal(t, calls, vol.TotalCalls())

	d, err := root.Open("y", rwc, 0)
	require.NoError(t, err)
	_, err = d.Delete()
	require.NoError(t, err)
	calls = vol.TotalCalls()
	assert.PanicsWithValue(t, errClosedHandle, func() { _, _ = d.Write([]byte("z")) })
	assert.PanicsWithValue(t, errClosedHandle, func() { _ = d.Flush() })
	assert.Equal(t, calls, vol.TotalCalls())
}

func TestFile_DeleteFailureIsWarning(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{})
	vol.AddFile(`dir\keep.txt`, []byte("x"))

	d, err := root.Open("dir", file.ModeRead|file.ModeWrite, 0)
	require.NoError(t, err)

	w, err := d.Delete()
	require.NoError(t, err)
	assert.Equal(t, domain.WarnDeleteFailure, w.Code())
	assert.Equal(t, w, d.Warning())
	assert.True(t, vol.Exists("dir"))

	// the handle is closed even though the delete failed
	assert.Panics(t, func() { _ = d.Flush() })

	f, err := root.Open(`dir\keep.txt`, file.ModeRead|file.ModeWrite, 0)
	require.NoError(t, err)
	w, err = f.Delete()
	require.NoError(t, err)
	assert.True(t, w.IsZero())
	assert.False(t, vol.Exists(`dir\keep.txt`))
}

func TestFile_PartialWrite(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{MaxWrite: 3})
	h, err := root.Open("p.bin", rwc, 0)
	require.NoError(t, err)

	n, err := h.Write([]byte("abcdefgh"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = WriteAll(h, []byte("defgh"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 3, vol.Calls("write"))

	data, _ := vol.Contents("p.bin")
	assert.Equal(t, "abcdefgh", string(data))
}

func TestFile_VolumeFull(t *testing.T) {
	_, root := newRoot(t, emulated.VolumeConfig{Capacity: 4})
	h, err := root.Open("big", rwc, 0)
	require.NoError(t, err)

	n, err := h.Write([]byte("12345"))
	assert.ErrorIs(t, err, domain.ErrVolumeFull)
	assert.Zero(t, n)
}

func TestFile_GetInfoBufferTooSmallThenRetry(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{})
	vol.AddFile("readme.txt", []byte("0123456789"))

	h, err := root.Open("readme.txt", file.ModeRead, 0)
	require.NoError(t, err)

	_, err = h.GetInfo(file.InfoID, nil)
	require.ErrorIs(t, err, domain.ErrBufferTooSmall)
	need, ok := domain.RequiredSize(err)
	require.True(t, ok)
	assert.Equal(t, uint64(file.InfoHeaderSize+2*11), need)

	info, err := ReadInfo(h, make([]byte, need))
	require.NoError(t, err)
	assert.Equal(t, "readme.txt", info.FileName)
	assert.Equal(t, uint64(10), info.FileSize)
	assert.Equal(t, uint64(512), info.PhysicalSize)
}

func TestFile_SetInfoValidatesLocally(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{})
	h, err := root.Open("f", rwc, 0)
	require.NoError(t, err)

	rec, err := (&file.Info{FileName: "f"}).MarshalBinary()
	require.NoError(t, err)

	lying := append([]byte(nil), rec...)
	binary.LittleEndian.PutUint64(lying[0:8], uint64(len(rec)+10))
	err = h.SetInfo(file.InfoID, lying)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	err = h.SetInfo(file.SystemInfoID, make([]byte, 20))
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	err = h.SetInfo(file.InfoID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	assert.Zero(t, vol.Calls("set-info"))
}

func TestFile_WriteInfoRenamesAndResizes(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{})
	vol.AddFile("old.txt", []byte("abcdef"))

	h, err := root.Open("old.txt", file.ModeRead|file.ModeWrite, 0)
	require.NoError(t, err)

	info, err := ReadInfo(h, make([]byte, 256))
	require.NoError(t, err)
	info.FileName = "new.txt"
	info.FileSize = 3
	info.Attribute = file.Archive | file.Hidden
	require.NoError(t, WriteInfo(h, &info))

	assert.False(t, vol.Exists("old.txt"))
	data, ok := vol.Contents("new.txt")
	require.True(t, ok)
	assert.Equal(t, "abc", string(data))

	info.Attribute |= file.Directory
	err = WriteInfo(h, &info)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestFile_VolumeInfoAndLabel(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{Label: "BOOT", Capacity: 8192})
	vol.AddFile("a", make([]byte, 100))

	si, err := ReadSystemInfo(root, make([]byte, 128))
	require.NoError(t, err)
	assert.Equal(t, "BOOT", si.VolumeLabel)
	assert.Equal(t, uint64(8192), si.VolumeSize)
	assert.Equal(t, uint64(8092), si.FreeSpace)

	require.NoError(t, SetVolumeLabel(root, "DATA"))
	label, err := ReadVolumeLabel(root, make([]byte, 64))
	require.NoError(t, err)
	assert.Equal(t, "DATA", label)
	assert.Equal(t, "DATA", vol.Label())
}

func TestFile_DirectoryListing(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{})
	vol.AddFile("b.txt", []byte("bb"))
	vol.AddFile("a.txt", []byte("a"))
	vol.AddDir("sub")

	var names []string
	buf := make([]byte, 256)
	for {
		info, ok, err := ReadDirEntry(root, buf)
		require.NoError(t, err)
		if !ok {
			break
		}
		names = append(names, info.FileName)
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "sub"}, names)

	// restart and read with a buffer that is too small
	require.NoError(t, root.SetPosition(0))
	_, err := root.Read(make([]byte, 10))
	need, ok := domain.RequiredSize(err)
	require.True(t, ok)
	assert.Equal(t, uint64(file.InfoHeaderSize+2*6), need)
}

func TestFile_ProviderErrorsAreTranslated(t *testing.T) {
	vol, root := newRoot(t, emulated.VolumeConfig{})
	vol.FailNext("flush", domain.ErrorStatus(domain.CodeMediaChanged))
	vol.FailNext("flush", domain.WarningStatus(domain.WarnWriteFailure))

	err := root.Flush()
	assert.ErrorIs(t, err, domain.ErrMediaChanged)
	var e *domain.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "file.flush", e.Op)
	assert.False(t, e.Local)

	require.NoError(t, root.Flush())
	assert.Equal(t, domain.WarnWriteFailure, root.Warning().Code())

	require.NoError(t, root.Flush())
	assert.True(t, root.Warning().IsZero())
}

func TestFile_ProviderCountOverflow(t *testing.T) {
	stub := &stubTable{
		rev: file.Revision,
		read: func(bufferSize *uint, _ []byte) domain.Status {
			*bufferSize++
			return domain.Success
		},
	}
	h, err := AcquireFile(stub)
	require.NoError(t, err)

	_, err = h.Read(make([]byte, 8))
	assert.ErrorIs(t, err, domain.ErrDeviceError)
}

func TestFile_RejectedChildTableIsClosed(t *testing.T) {
	child := &stubTable{rev: 0xFFFF}
	parent := &stubTable{
		rev: file.Revision,
		open: func(newHandle *driven.FileProtocol) domain.Status {
			*newHandle = child
			return domain.Success
		},
	}
	h, err := AcquireFile(parent)
	require.NoError(t, err)

	_, err = h.Open("x", file.ModeRead, 0)
	assert.True(t, errors.Is(err, domain.ErrUnsupported))
	assert.Equal(t, 1, child.closed)
}

func TestFile_SuccessWithoutHandle(t *testing.T) {
	parent := &stubTable{
		rev:  file.Revision,
		open: func(*driven.FileProtocol) domain.Status { return domain.Success },
	}
	h, err := AcquireFile(parent)
	require.NoError(t, err)

	_, err = h.Open("x", file.ModeRead, 0)
	assert.ErrorIs(t, err, domain.ErrDeviceError)
}
