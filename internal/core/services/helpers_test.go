package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/firmproto/internal/adapters/driven/emulated"
	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/protocols/file"
)

const rwc = file.ModeRead | file.ModeWrite | file.ModeCreate

func newRoot(t *testing.T, cfg emulated.VolumeConfig) (*emulated.Volume, *File) {
	t.Helper()
	vol := emulated.NewVolume(cfg)
	root, err := AcquireFile(vol.OpenVolume())
	require.NoError(t, err)
	return vol, root
}

// stubTable is a FileProtocol whose slots are replaced per test. Slots left
// nil report Unsupported.
type stubTable struct {
	rev    domain.Revision
	open   func(newHandle *driven.FileProtocol) domain.Status
	read   func(bufferSize *uint, buffer []byte) domain.Status
	closed int
}

func (s *stubTable) Revision() domain.Revision { return s.rev }

func (s *stubTable) Open(newHandle *driven.FileProtocol, _ []uint16, _, _ uint64) domain.Status {
	if s.open == nil {
		return domain.ErrorStatus(domain.CodeUnsupported)
	}
	return s.open(newHandle)
}

func (s *stubTable) Close() domain.Status {
	s.closed++
	return domain.Success
}

func (s *stubTable) Delete() domain.Status { return domain.Success }

func (s *stubTable) Read(bufferSize *uint, buffer []byte) domain.Status {
	if s.read == nil {
		return domain.ErrorStatus(domain.CodeUnsupported)
	}
	return s.read(bufferSize, buffer)
}

func (s *stubTable) Write(*uint, []byte) domain.Status {
	return domain.ErrorStatus(domain.CodeUnsupported)
}

func (s *stubTable) GetPosition(*uint64) domain.Status {
	return domain.ErrorStatus(domain.CodeUnsupported)
}

func (s *stubTable) SetPosition(uint64) domain.Status {
	return domain.ErrorStatus(domain.CodeUnsupported)
}

func (s *stubTable) GetInfo(*domain.Guid, *uint, []byte) domain.Status {
	return domain.ErrorStatus(domain.CodeUnsupported)
}

func (s *stubTable) SetInfo(*domain.Guid, uint, []byte) domain.Status {
	return domain.ErrorStatus(domain.CodeUnsupported)
}

func (s *stubTable) Flush() domain.Status { return domain.Success }

func (s *stubTable) OpenEx(*driven.FileProtocol, []uint16, uint64, uint64, *driven.IoToken) domain.Status {
	return domain.ErrorStatus(domain.CodeUnsupported)
}

func (s *stubTable) ReadEx(*driven.IoToken) domain.Status {
	return domain.ErrorStatus(domain.CodeUnsupported)
}

func (s *stubTable) WriteEx(*driven.IoToken) domain.Status {
	return domain.ErrorStatus(domain.CodeUnsupported)
}

func (s *stubTable) FlushEx(*driven.IoToken) domain.Status {
	return domain.ErrorStatus(domain.CodeUnsupported)
}
