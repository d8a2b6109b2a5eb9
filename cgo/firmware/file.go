//go:build cgo

package firmware

/*
#include <stdlib.h>
#include <string.h>
#include "firmware.h"
*/
import "C"

import (
	"context"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
)

// Ensure FileTable implements the interface.
var _ driven.FileProtocol = (*FileTable)(nil)

// FileTable is a borrowed firmware file protocol table.
type FileTable struct {
	p *C.fw_file
}

// NewFileTable wraps a pointer to a firmware file protocol table, as
// returned by a simple file system's open-volume slot.
func NewFileTable(p unsafe.Pointer) (*FileTable, error) {
	if p == nil {
		return nil, ErrNilTable
	}
	return &FileTable{p: (*C.fw_file)(p)}, nil
}

// Revision reads the leading revision field.
func (t *FileTable) Revision() domain.Revision {
	return domain.Revision(t.p.revision)
}

// Open calls the open slot.
func (t *FileTable) Open(newHandle *driven.FileProtocol, fileName []uint16, openMode, attributes uint64) domain.Status {
	var nh *C.fw_file
	s := domain.Status(C.fw_file_open(t.p, &nh, unitPtr(fileName), C.uint64_t(openMode), C.uint64_t(attributes)))
	if s == domain.Success && nh != nil {
		*newHandle = &FileTable{p: nh}
	}
	return s
}

// Close calls the close slot.
func (t *FileTable) Close() domain.Status {
	return domain.Status(C.fw_file_close(t.p))
}

// Delete calls the delete slot.
func (t *FileTable) Delete() domain.Status {
	return domain.Status(C.fw_file_delete(t.p))
}

// Read calls the read slot.
func (t *FileTable) Read(bufferSize *uint, buffer []byte) domain.Status {
	size := C.uintptr_t(*bufferSize)
	s := domain.Status(C.fw_file_read(t.p, &size, bytePtr(buffer)))
	*bufferSize = uint(size)
	return s
}

// Write calls the write slot.
func (t *FileTable) Write(bufferSize *uint, buffer []byte) domain.Status {
	size := C.uintptr_t(*bufferSize)
	s := domain.Status(C.fw_file_write(t.p, &size, bytePtr(buffer)))
	*bufferSize = uint(size)
	return s
}

// GetPosition calls the get-position slot.
func (t *FileTable) GetPosition(position *uint64) domain.Status {
	var pos C.uint64_t
	s := domain.Status(C.fw_file_get_position(t.p, &pos))
	*position = uint64(pos)
	return s
}

// SetPosition calls the set-position slot.
func (t *FileTable) SetPosition(position uint64) domain.Status {
	return domain.Status(C.fw_file_set_position(t.p, C.uint64_t(position)))
}

// GetInfo calls the get-info slot.
func (t *FileTable) GetInfo(infoType *domain.Guid, bufferSize *uint, buffer []byte) domain.Status {
	g := cGuid(*infoType)
	size := C.uintptr_t(*bufferSize)
	s := domain.Status(C.fw_file_get_info(t.p, &g, &size, bytePtr(buffer)))
	*bufferSize = uint(size)
	return s
}

// SetInfo calls the set-info slot.
func (t *FileTable) SetInfo(infoType *domain.Guid, bufferSize uint, buffer []byte) domain.Status {
	g := cGuid(*infoType)
	return domain.Status(C.fw_file_set_info(t.p, &g, C.uintptr_t(bufferSize), bytePtr(buffer)))
}

// Flush calls the flush slot.
func (t *FileTable) Flush() domain.Status {
	return domain.Status(C.fw_file_flush(t.p))
}

// OpenEx calls the open-ex slot. The name and the new handle slot live in C
// memory until the token is observed.
func (t *FileTable) OpenEx(newHandle *driven.FileProtocol, fileName []uint16, openMode, attributes uint64, token *driven.IoToken) domain.Status {
	b, ok := newBridge(token, 0)
	if !ok {
		return domain.ErrorStatus(domain.CodeInvalidParameter)
	}
	name := C.malloc(C.size_t(len(fileName) * 2))
	C.memcpy(name, unsafe.Pointer(unitPtr(fileName)), C.size_t(len(fileName)*2))
	slot := (**C.fw_file)(C.calloc(1, C.size_t(unsafe.Sizeof(uintptr(0)))))
	b.extra = []unsafe.Pointer{name, unsafe.Pointer(slot)}
	b.onSuccess = func() {
		if *slot != nil {
			*newHandle = &FileTable{p: *slot}
		}
	}
	s := domain.Status(C.fw_file_open_ex(t.p, slot, (*C.uint16_t)(name),
		C.uint64_t(openMode), C.uint64_t(attributes), b.tok))
	return b.submitted(s)
}

// ReadEx calls the read-ex slot. Data lands in a C buffer and is copied to
// token.Buffer when the token is observed.
func (t *FileTable) ReadEx(token *driven.IoToken) domain.Status {
	b, ok := newBridge(token, token.BufferSize)
	if !ok {
		return domain.ErrorStatus(domain.CodeInvalidParameter)
	}
	b.copyOut = true
	return b.submitted(domain.Status(C.fw_file_read_ex(t.p, b.tok)))
}

// WriteEx calls the write-ex slot from a C copy of token.Buffer.
func (t *FileTable) WriteEx(token *driven.IoToken) domain.Status {
	b, ok := newBridge(token, token.BufferSize)
	if !ok {
		return domain.ErrorStatus(domain.CodeInvalidParameter)
	}
	if n := min(int(token.BufferSize), len(token.Buffer)); n > 0 {
		C.memcpy(b.tok.buffer, unsafe.Pointer(&token.Buffer[0]), C.size_t(n))
	}
	return b.submitted(domain.Status(C.fw_file_write_ex(t.p, b.tok)))
}

// FlushEx calls the flush-ex slot.
func (t *FileTable) FlushEx(token *driven.IoToken) domain.Status {
	b, ok := newBridge(token, 0)
	if !ok {
		return domain.ErrorStatus(domain.CodeInvalidParameter)
	}
	return b.submitted(domain.Status(C.fw_file_flush_ex(t.p, b.tok)))
}

// bridge carries a token across the cgo boundary. It replaces token.Event
// and, the first time the firmware event is seen signalled, copies the C
// token back into the Go token and frees the C memory.
type bridge struct {
	ev    *Event
	token *driven.IoToken
	tok   *C.fw_file_io_token
	extra []unsafe.Pointer

	copyOut   bool
	onSuccess func()

	once sync.Once
	done atomic.Bool
}

func newBridge(token *driven.IoToken, size uint) (*bridge, bool) {
	ev, ok := token.Event.(*Event)
	if !ok {
		return nil, false
	}
	tok := (*C.fw_file_io_token)(C.calloc(1, C.size_t(unsafe.Sizeof(C.fw_file_io_token{}))))
	tok.event = ev.h
	tok.buffer_size = C.uintptr_t(size)
	if size > 0 {
		tok.buffer = C.malloc(C.size_t(size))
	}
	return &bridge{ev: ev, token: token, tok: tok}, true
}

// submitted installs the bridge when the slot accepted the token and frees
// everything when it did not.
func (b *bridge) submitted(s domain.Status) domain.Status {
	if s.IsError() {
		b.free()
		return s
	}
	b.token.Event = b
	return s
}

func (b *bridge) settle() {
	b.once.Do(func() {
		s := domain.Status(b.tok.status)
		size := uint(b.tok.buffer_size)
		if b.copyOut && s == domain.Success && size > 0 {
			n := min(int(size), len(b.token.Buffer))
			copy(b.token.Buffer, unsafe.Slice((*byte)(b.tok.buffer), n))
		}
		if s == domain.Success && b.onSuccess != nil {
			b.onSuccess()
		}
		b.token.Status = s
		b.token.BufferSize = size
		b.free()
		b.done.Store(true)
	})
}

func (b *bridge) free() {
	if b.tok.buffer != nil {
		C.free(b.tok.buffer)
	}
	for _, p := range b.extra {
		C.free(p)
	}
	C.free(unsafe.Pointer(b.tok))
}

func (b *bridge) settled() bool {
	return b.done.Load()
}

// Signal signals the firmware event.
func (b *bridge) Signal() {
	b.ev.Signal()
}

// Signaled reports whether the token completed. Once true it stays true.
func (b *bridge) Signaled() bool {
	if b.settled() {
		return true
	}
	if !b.ev.Signaled() {
		return false
	}
	b.settle()
	return true
}

// Wait blocks until the token completes or ctx is done.
func (b *bridge) Wait(ctx context.Context) error {
	if b.settled() {
		return nil
	}
	if err := b.ev.Wait(ctx); err != nil {
		return err
	}
	b.settle()
	return nil
}

func unitPtr(units []uint16) *C.uint16_t {
	if len(units) == 0 {
		return nil
	}
	return (*C.uint16_t)(unsafe.Pointer(&units[0]))
}

func bytePtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func cGuid(g domain.Guid) C.fw_guid {
	var c C.fw_guid
	c.data1 = C.uint32_t(g.Data1)
	c.data2 = C.uint16_t(g.Data2)
	c.data3 = C.uint16_t(g.Data3)
	for i, v := range g.Data4 {
		c.data4[i] = C.uint8_t(v)
	}
	return c
}

func goGuid(c *C.fw_guid) domain.Guid {
	g := domain.Guid{
		Data1: uint32(c.data1),
		Data2: uint16(c.data2),
		Data3: uint16(c.data3),
	}
	for i := range g.Data4 {
		g.Data4[i] = uint8(c.data4[i])
	}
	return g
}
