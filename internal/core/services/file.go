package services

import (
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/firmproto/internal/abi"
	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/core/ports/driving"
	"github.com/custodia-labs/firmproto/internal/logger"
	"github.com/custodia-labs/firmproto/internal/protocols/file"
)

// Ensure File implements the interface.
var _ driving.FileHandle = (*File)(nil)

// errClosedHandle is the panic value for any call on a closed File.
const errClosedHandle = "services: use of closed file handle"

// File is an open handle over a borrowed file protocol table.
//
// A File only exists in the open state: it is produced by AcquireFile or a
// successful Open, and Close or Delete drop the table so no later call can
// reach a foreign slot. Calling any handle operation after that is a
// programmer error and panics. Calls on one File are serialized.
type File struct {
	mu      sync.Mutex
	table   driven.FileProtocol
	rev     domain.Revision
	tier    file.Tier
	warning domain.Warning
	pending atomic.Int64
}

// AcquireFile wraps a borrowed table. The revision is read once and the
// resulting tier cached for the lifetime of the handle.
func AcquireFile(table driven.FileProtocol) (*File, error) {
	if table == nil {
		return nil, domain.NewInvalidParameter("file.acquire", "nil table")
	}
	rev := table.Revision()
	tier, err := file.TierFor(rev)
	if err != nil {
		return nil, err
	}
	logger.Debug("file: acquired table revision %s, tier %s", rev, tier)
	return &File{table: table, rev: rev, tier: tier}, nil
}

// Tier returns the capability tier resolved at acquisition.
func (f *File) Tier() file.Tier {
	return f.tier
}

// Revision returns the revision observed at acquisition.
func (f *File) Revision() domain.Revision {
	return f.rev
}

// Warning returns the warning of the most recent call, if any.
func (f *File) Warning() domain.Warning {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.warning
}

// Open opens name relative to this handle.
func (f *File) Open(name string, mode file.Mode, attrs file.Attribute) (driving.FileHandle, error) {
	const op = "file.open"
	units, err := openArgs(op, name, mode, attrs)
	if err != nil {
		return nil, err
	}

	t := f.lock()
	defer f.mu.Unlock()

	var next driven.FileProtocol
	if err := f.finish(op, t.Open(&next, units, uint64(mode), uint64(attrs))); err != nil {
		return nil, err
	}
	return adoptOpened(op, next)
}

// Close closes the handle.
func (f *File) Close() error {
	const op = "file.close"
	t := f.lock()
	defer f.mu.Unlock()

	f.release(op)
	return f.finish(op, t.Close())
}

// Delete closes the handle and asks the provider to remove the file. The
// handle is closed whatever the outcome; a provider that could not remove
// the file reports it as a warning.
func (f *File) Delete() (domain.Warning, error) {
	const op = "file.delete"
	t := f.lock()
	defer f.mu.Unlock()

	f.release(op)
	err := f.finish(op, t.Delete())
	if !f.warning.IsZero() {
		logger.Warn("%s: %s", op, f.warning)
	}
	return f.warning, err
}

// Read reads into p and returns the count read. Zero bytes from a file means
// end of file; from a directory it means no more entries.
func (f *File) Read(p []byte) (int, error) {
	const op = "file.read"
	t := f.lock()
	defer f.mu.Unlock()

	size := uint(len(p))
	if err := f.finish(op, t.Read(&size, p)); err != nil {
		return 0, withRequired(err, size)
	}
	return checkCount(op, size, len(p))
}

// Write writes p and returns the count written. A count below len(p) is a
// partial write; the caller resumes with the rest.
func (f *File) Write(p []byte) (int, error) {
	const op = "file.write"
	t := f.lock()
	defer f.mu.Unlock()

	size := uint(len(p))
	if err := f.finish(op, t.Write(&size, p)); err != nil {
		return 0, err
	}
	return checkCount(op, size, len(p))
}

// Position returns the current byte offset.
func (f *File) Position() (uint64, error) {
	const op = "file.get-position"
	t := f.lock()
	defer f.mu.Unlock()

	var pos uint64
	if err := f.finish(op, t.GetPosition(&pos)); err != nil {
		return 0, err
	}
	return pos, nil
}

// SetPosition moves to an absolute offset, or to the end with file.EndOfFile.
func (f *File) SetPosition(pos uint64) error {
	const op = "file.set-position"
	t := f.lock()
	defer f.mu.Unlock()

	return f.finish(op, t.SetPosition(pos))
}

// GetInfo fills buf with the record selected by id and returns its length.
// When buf is too small the error carries the required size; the caller
// allocates and calls again. A nil buf is a valid size query.
func (f *File) GetInfo(id domain.Guid, buf []byte) (int, error) {
	const op = "file.get-info"
	t := f.lock()
	defer f.mu.Unlock()

	size := uint(len(buf))
	if err := f.finish(op, t.GetInfo(&id, &size, buf)); err != nil {
		return 0, withRequired(err, size)
	}
	return checkCount(op, size, len(buf))
}

// SetInfo applies the exact-layout record in buf. Records with a size field
// must declare a size that covers their header and fits in buf.
func (f *File) SetInfo(id domain.Guid, buf []byte) error {
	const op = "file.set-info"
	if err := checkInfoBuffer(op, id, buf); err != nil {
		return err
	}

	t := f.lock()
	defer f.mu.Unlock()

	return f.finish(op, t.SetInfo(&id, uint(len(buf)), buf))
}

// Flush writes buffered data to the device.
func (f *File) Flush() error {
	const op = "file.flush"
	t := f.lock()
	defer f.mu.Unlock()

	return f.finish(op, t.Flush())
}

// lock acquires the handle and returns its table. It panics on a closed
// handle. The caller unlocks f.mu.
func (f *File) lock() driven.FileProtocol {
	f.mu.Lock()
	if f.table == nil {
		f.mu.Unlock()
		panic(errClosedHandle)
	}
	return f.table
}

// finish traces and translates a slot status, recording any warning.
// Caller holds f.mu.
func (f *File) finish(op string, s domain.Status) error {
	logger.Call(op, s)
	w, err := domain.CheckOp(op, s)
	f.warning = w
	return err
}

// release drops the table. Caller holds f.mu.
func (f *File) release(op string) {
	f.table = nil
	if n := f.pending.Load(); n > 0 {
		logger.Warn("%s: handle closed with %d unobserved completions", op, n)
	}
}

func openArgs(op, name string, mode file.Mode, attrs file.Attribute) ([]uint16, error) {
	if mode&file.ModeCreate != 0 && mode&file.ModeWrite == 0 {
		return nil, domain.NewInvalidParameter(op, "create requires write mode")
	}
	if !mode.Valid() {
		return nil, domain.NewInvalidParameter(op, fmt.Sprintf("invalid open mode %#x", uint64(mode)))
	}
	if !attrs.Valid() {
		return nil, domain.NewInvalidParameter(op, fmt.Sprintf("invalid attributes %#x", uint64(attrs)))
	}
	units, err := abi.EncodeUnits(name)
	if err != nil {
		return nil, domain.NewInvalidParameter(op, "file name: "+err.Error())
	}
	return units, nil
}

// adoptOpened acquires a table returned by an open slot. A table whose
// revision cannot be used is closed again rather than leaked.
func adoptOpened(op string, next driven.FileProtocol) (*File, error) {
	if next == nil {
		return nil, &domain.Error{
			Op:     op,
			Kind:   domain.KindDeviceError,
			Status: domain.ErrorStatus(domain.CodeDeviceError),
			Reason: "provider reported success without a handle",
		}
	}
	h, err := AcquireFile(next)
	if err != nil {
		logger.Call(op+" (reject)", next.Close())
		return nil, err
	}
	return h, nil
}

// withRequired records the size a provider asked for on BufferTooSmall.
func withRequired(err error, size uint) error {
	if e, ok := err.(*domain.Error); ok && e.Kind == domain.KindBufferTooSmall {
		e.Required = uint64(size)
	}
	return err
}

// checkCount rejects a provider count larger than the buffer it was given.
func checkCount(op string, size uint, capacity int) (int, error) {
	if uint64(size) > uint64(capacity) {
		return 0, &domain.Error{
			Op:     op,
			Kind:   domain.KindDeviceError,
			Status: domain.ErrorStatus(domain.CodeDeviceError),
			Reason: fmt.Sprintf("provider reported %d bytes for a %d-byte buffer", size, capacity),
		}
	}
	return int(size), nil
}

func checkInfoBuffer(op string, id domain.Guid, buf []byte) error {
	if len(buf) == 0 {
		return domain.NewInvalidParameter(op, "empty info buffer")
	}
	var header int
	switch id {
	case file.InfoID:
		header = file.InfoHeaderSize
	case file.SystemInfoID:
		header = file.SystemInfoHeaderSize
	default:
		return nil
	}
	if len(buf) < header {
		return domain.NewInvalidParameter(op, fmt.Sprintf("buffer of %d bytes below header size %d", len(buf), header))
	}
	declared := binary.LittleEndian.Uint64(buf[0:8])
	if declared < uint64(header) || declared > uint64(len(buf)) {
		return domain.NewInvalidParameter(op, fmt.Sprintf("declared size %d outside [%d, %d]", declared, header, len(buf)))
	}
	return nil
}
