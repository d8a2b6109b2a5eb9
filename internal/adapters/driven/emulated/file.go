package emulated

import (
	"strings"

	"github.com/custodia-labs/firmproto/internal/abi"
	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/protocols/file"
)

// Ensure FileTable implements the interface.
var _ driven.FileProtocol = (*FileTable)(nil)

// FileTable is one open file or directory of a Volume.
type FileTable struct {
	vol    *Volume
	path   string
	mode   file.Mode
	pos    uint64
	cursor int
	closed bool
}

func fail(code uintptr) domain.Status {
	return domain.ErrorStatus(code)
}

// Revision returns the volume's configured revision.
func (t *FileTable) Revision() domain.Revision {
	return t.vol.cfg.Revision
}

// begin counts the call and rejects closed tables. Caller holds t.vol.mu.
func (t *FileTable) begin(slot string) (domain.Status, bool) {
	if s, ok := t.vol.enter(slot); ok {
		return s, true
	}
	if t.closed {
		return fail(domain.CodeInvalidParameter), true
	}
	if _, ok := t.vol.nodes[t.path]; !ok {
		return fail(domain.CodeDeviceError), true
	}
	return domain.Success, false
}

// beginAsync is begin for the token slots, which a revision 1 table lacks.
func (t *FileTable) beginAsync(slot string, token *driven.IoToken) (domain.Status, bool) {
	if s, done := t.begin(slot); done {
		return s, true
	}
	if !t.vol.cfg.Revision.AtLeast(file.Revision2) {
		return fail(domain.CodeUnsupported), true
	}
	if token == nil || token.Event == nil {
		return fail(domain.CodeInvalidParameter), true
	}
	return domain.Success, false
}

// Open opens fileName relative to this table.
func (t *FileTable) Open(newHandle *driven.FileProtocol, fileName []uint16, openMode, attributes uint64) domain.Status {
	t.vol.mu.Lock()
	defer t.vol.mu.Unlock()
	if s, done := t.begin("open"); done {
		return s
	}
	nt, s := t.open(fileName, file.Mode(openMode), file.Attribute(attributes))
	if s == domain.Success {
		*newHandle = nt
	}
	return s
}

func (t *FileTable) open(fileName []uint16, mode file.Mode, attrs file.Attribute) (*FileTable, domain.Status) {
	v := t.vol
	if !mode.Valid() || !attrs.Valid() {
		return nil, fail(domain.CodeInvalidParameter)
	}
	name, err := abi.DecodeUnits(fileName)
	if err != nil {
		return nil, fail(domain.CodeInvalidParameter)
	}
	base := t.path
	if !v.nodes[base].dir {
		base = parentOf(base)
	}
	p := cleanPath(base, name)
	writing := mode&file.ModeWrite != 0
	if writing && v.cfg.ReadOnly {
		return nil, fail(domain.CodeWriteProtected)
	}

	now := abi.TimeFrom(v.cfg.Now())
	n, exists := v.nodes[p]
	switch {
	case exists && mode&file.ModeCreate != 0 && n.dir != attrs.IsDir():
		return nil, fail(domain.CodeAlreadyStarted)
	case exists:
		if writing && n.attr&file.ReadOnly != 0 {
			return nil, fail(domain.CodeAccessDenied)
		}
	case mode&file.ModeCreate == 0:
		return nil, fail(domain.CodeNotFound)
	default:
		parent, ok := v.nodes[parentOf(p)]
		if !ok || !parent.dir {
			return nil, fail(domain.CodeNotFound)
		}
		n = &node{dir: attrs.IsDir(), attr: attrs, created: now, modified: now}
		v.nodes[p] = n
		parent.modified = now
	}
	n.accessed = now
	return &FileTable{vol: v, path: p, mode: mode}, domain.Success
}

// Close closes the table.
func (t *FileTable) Close() domain.Status {
	t.vol.mu.Lock()
	defer t.vol.mu.Unlock()
	s, injected := t.vol.enter("close")
	if t.closed {
		return fail(domain.CodeInvalidParameter)
	}
	t.closed = true
	if injected {
		return s
	}
	return domain.Success
}

// Delete closes the table and removes its file. A root directory, a
// non-empty directory or a read-only volume is left in place with a
// delete-failure warning.
func (t *FileTable) Delete() domain.Status {
	v := t.vol
	v.mu.Lock()
	defer v.mu.Unlock()
	s, injected := v.enter("delete")
	if t.closed {
		return fail(domain.CodeInvalidParameter)
	}
	t.closed = true
	if injected {
		return s
	}
	n, ok := v.nodes[t.path]
	if !ok {
		return domain.WarningStatus(domain.WarnDeleteFailure)
	}
	if t.path == "" || v.cfg.ReadOnly || (n.dir && len(v.children(t.path)) > 0) {
		return domain.WarningStatus(domain.WarnDeleteFailure)
	}
	v.used -= uint64(len(n.data))
	delete(v.nodes, t.path)
	return domain.Success
}

// Read reads file data, or the next directory entry as an Info record.
func (t *FileTable) Read(bufferSize *uint, buffer []byte) domain.Status {
	t.vol.mu.Lock()
	defer t.vol.mu.Unlock()
	if s, done := t.begin("read"); done {
		return s
	}
	return t.read(bufferSize, buffer)
}

func (t *FileTable) read(bufferSize *uint, buffer []byte) domain.Status {
	v := t.vol
	n := v.nodes[t.path]
	want := min(int(*bufferSize), len(buffer))
	if n.dir {
		kids := v.children(t.path)
		if t.cursor >= len(kids) {
			*bufferSize = 0
			return domain.Success
		}
		info := v.info(kids[t.cursor])
		rec, err := info.MarshalBinary()
		if err != nil {
			*bufferSize = 0
			return fail(domain.CodeDeviceError)
		}
		if len(rec) > want {
			*bufferSize = uint(len(rec))
			return fail(domain.CodeBufferTooSmall)
		}
		*bufferSize = uint(copy(buffer, rec))
		t.cursor++
		return domain.Success
	}
	if t.pos > uint64(len(n.data)) {
		return fail(domain.CodeDeviceError)
	}
	c := copy(buffer[:want], n.data[t.pos:])
	t.pos += uint64(c)
	n.accessed = abi.TimeFrom(v.cfg.Now())
	*bufferSize = uint(c)
	return domain.Success
}

// Write writes at the current position, extending the file as needed.
func (t *FileTable) Write(bufferSize *uint, buffer []byte) domain.Status {
	t.vol.mu.Lock()
	defer t.vol.mu.Unlock()
	if s, done := t.begin("write"); done {
		return s
	}
	return t.write(bufferSize, buffer)
}

func (t *FileTable) write(bufferSize *uint, buffer []byte) domain.Status {
	v := t.vol
	n := v.nodes[t.path]
	switch {
	case n.dir:
		return fail(domain.CodeUnsupported)
	case v.cfg.ReadOnly:
		return fail(domain.CodeWriteProtected)
	case t.mode&file.ModeWrite == 0:
		return fail(domain.CodeAccessDenied)
	}
	want := min(int(*bufferSize), len(buffer))
	if v.cfg.MaxWrite > 0 && want > v.cfg.MaxWrite {
		want = v.cfg.MaxWrite
	}
	end := t.pos + uint64(want)
	var growth uint64
	if end > uint64(len(n.data)) {
		growth = end - uint64(len(n.data))
	}
	if v.used+growth > v.cfg.Capacity {
		*bufferSize = 0
		return fail(domain.CodeVolumeFull)
	}
	if growth > 0 {
		n.data = append(n.data, make([]byte, growth)...)
	}
	copy(n.data[t.pos:end], buffer[:want])
	t.pos = end
	v.used += growth
	n.modified = abi.TimeFrom(v.cfg.Now())
	*bufferSize = uint(want)
	return domain.Success
}

// GetPosition stores the current offset. Directories have none.
func (t *FileTable) GetPosition(position *uint64) domain.Status {
	t.vol.mu.Lock()
	defer t.vol.mu.Unlock()
	if s, done := t.begin("get-position"); done {
		return s
	}
	if t.vol.nodes[t.path].dir {
		return fail(domain.CodeUnsupported)
	}
	*position = t.pos
	return domain.Success
}

// SetPosition moves the offset. Directories only accept 0, which restarts
// the entry listing.
func (t *FileTable) SetPosition(position uint64) domain.Status {
	t.vol.mu.Lock()
	defer t.vol.mu.Unlock()
	if s, done := t.begin("set-position"); done {
		return s
	}
	n := t.vol.nodes[t.path]
	switch {
	case n.dir && position == 0:
		t.cursor = 0
	case n.dir:
		return fail(domain.CodeUnsupported)
	case position == file.EndOfFile:
		t.pos = uint64(len(n.data))
	default:
		t.pos = position
	}
	return domain.Success
}

// GetInfo stores the record selected by infoType.
func (t *FileTable) GetInfo(infoType *domain.Guid, bufferSize *uint, buffer []byte) domain.Status {
	v := t.vol
	v.mu.Lock()
	defer v.mu.Unlock()
	if s, done := t.begin("get-info"); done {
		return s
	}
	var (
		rec []byte
		err error
	)
	switch *infoType {
	case file.InfoID:
		info := v.info(t.path)
		rec, err = info.MarshalBinary()
	case file.SystemInfoID:
		si := v.systemInfo()
		rec, err = si.MarshalBinary()
	case file.SystemVolumeLabelID:
		l := file.SystemVolumeLabel{VolumeLabel: v.label}
		rec, err = l.MarshalBinary()
	default:
		return fail(domain.CodeUnsupported)
	}
	if err != nil {
		*bufferSize = 0
		return fail(domain.CodeDeviceError)
	}
	if len(rec) > min(int(*bufferSize), len(buffer)) {
		*bufferSize = uint(len(rec))
		return fail(domain.CodeBufferTooSmall)
	}
	*bufferSize = uint(copy(buffer, rec))
	return domain.Success
}

// SetInfo applies the record selected by infoType.
func (t *FileTable) SetInfo(infoType *domain.Guid, bufferSize uint, buffer []byte) domain.Status {
	v := t.vol
	v.mu.Lock()
	defer v.mu.Unlock()
	if s, done := t.begin("set-info"); done {
		return s
	}
	if v.cfg.ReadOnly {
		return fail(domain.CodeWriteProtected)
	}
	buf := buffer[:min(int(bufferSize), len(buffer))]
	switch *infoType {
	case file.InfoID:
		info, err := file.DecodeInfo(buf)
		if err != nil {
			return fail(domain.CodeBadBufferSize)
		}
		return t.setInfo(info)
	case file.SystemInfoID:
		si, err := file.DecodeSystemInfo(buf)
		if err != nil {
			return fail(domain.CodeBadBufferSize)
		}
		v.label = si.VolumeLabel
	case file.SystemVolumeLabelID:
		var l file.SystemVolumeLabel
		if err := l.UnmarshalBinary(buf); err != nil {
			return fail(domain.CodeBadBufferSize)
		}
		v.label = l.VolumeLabel
	default:
		return fail(domain.CodeUnsupported)
	}
	return domain.Success
}

func (t *FileTable) setInfo(info file.Info) domain.Status {
	v := t.vol
	n := v.nodes[t.path]
	switch {
	case t.mode&file.ModeWrite == 0:
		return fail(domain.CodeAccessDenied)
	case !info.Attribute.Valid():
		return fail(domain.CodeInvalidParameter)
	case info.Attribute.IsDir() != n.dir:
		return fail(domain.CodeAccessDenied)
	}

	if t.path != "" && info.FileName != baseOf(t.path) {
		to := cleanPath(parentOf(t.path), info.FileName)
		if _, taken := v.nodes[to]; taken || to == "" {
			return fail(domain.CodeAccessDenied)
		}
		v.rename(t.path, to)
		t.path = to
	}
	if !n.dir && info.FileSize != uint64(len(n.data)) {
		if info.FileSize > uint64(len(n.data)) {
			growth := info.FileSize - uint64(len(n.data))
			if v.used+growth > v.cfg.Capacity {
				return fail(domain.CodeVolumeFull)
			}
			n.data = append(n.data, make([]byte, growth)...)
			v.used += growth
		} else {
			v.used -= uint64(len(n.data)) - info.FileSize
			n.data = n.data[:info.FileSize]
		}
	}
	if !info.CreateTime.IsZero() {
		n.created = info.CreateTime
	}
	if !info.LastAccessTime.IsZero() {
		n.accessed = info.LastAccessTime
	}
	if !info.ModificationTime.IsZero() {
		n.modified = info.ModificationTime
	}
	n.attr = info.Attribute
	return domain.Success
}

// rename moves a node and everything below it. Caller holds v.mu.
func (v *Volume) rename(from, to string) {
	for p, n := range v.nodes {
		if p == from || strings.HasPrefix(p, from+`\`) {
			delete(v.nodes, p)
			v.nodes[to+p[len(from):]] = n
		}
	}
}

// Flush succeeds on anything opened for writing.
func (t *FileTable) Flush() domain.Status {
	t.vol.mu.Lock()
	defer t.vol.mu.Unlock()
	if s, done := t.begin("flush"); done {
		return s
	}
	return t.flush()
}

func (t *FileTable) flush() domain.Status {
	if t.vol.nodes[t.path].dir {
		return domain.Success
	}
	if t.mode&file.ModeWrite == 0 {
		return fail(domain.CodeAccessDenied)
	}
	return domain.Success
}

// OpenEx opens like Open and reports through token.
func (t *FileTable) OpenEx(newHandle *driven.FileProtocol, fileName []uint16, openMode, attributes uint64, token *driven.IoToken) domain.Status {
	t.vol.mu.Lock()
	defer t.vol.mu.Unlock()
	if s, done := t.beginAsync("open-ex", token); done {
		return s
	}
	nt, s := t.open(fileName, file.Mode(openMode), file.Attribute(attributes))
	t.vol.complete(func() {
		if s == domain.Success {
			*newHandle = nt
		}
		token.Status = s
		token.Event.Signal()
	})
	return domain.Success
}

// ReadEx reads like Read and reports through token. The data is copied
// into token.Buffer when the token completes.
func (t *FileTable) ReadEx(token *driven.IoToken) domain.Status {
	t.vol.mu.Lock()
	defer t.vol.mu.Unlock()
	if s, done := t.beginAsync("read-ex", token); done {
		return s
	}
	size := token.BufferSize
	scratch := make([]byte, min(int(size), len(token.Buffer)))
	s := t.read(&size, scratch)
	t.vol.complete(func() {
		if s == domain.Success {
			copy(token.Buffer, scratch[:size])
		}
		token.BufferSize = size
		token.Status = s
		token.Event.Signal()
	})
	return domain.Success
}

// WriteEx writes like Write and reports through token.
func (t *FileTable) WriteEx(token *driven.IoToken) domain.Status {
	t.vol.mu.Lock()
	defer t.vol.mu.Unlock()
	if s, done := t.beginAsync("write-ex", token); done {
		return s
	}
	size := token.BufferSize
	s := t.write(&size, token.Buffer)
	t.vol.complete(func() {
		token.BufferSize = size
		token.Status = s
		token.Event.Signal()
	})
	return domain.Success
}

// FlushEx flushes like Flush and reports through token.
func (t *FileTable) FlushEx(token *driven.IoToken) domain.Status {
	t.vol.mu.Lock()
	defer t.vol.mu.Unlock()
	if s, done := t.beginAsync("flush-ex", token); done {
		return s
	}
	s := t.flush()
	t.vol.complete(func() {
		token.BufferSize = 0
		token.Status = s
		token.Event.Signal()
	})
	return domain.Success
}
