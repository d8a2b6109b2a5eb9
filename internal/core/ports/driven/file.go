package driven

import "github.com/custodia-labs/firmproto/internal/core/domain"

// IoToken is the completion token of the asynchronous file slots. The
// provider writes Status and BufferSize, then signals Event. Buffer must not
// be touched by the caller until Event is signalled.
type IoToken struct {
	Event      Event
	Status     domain.Status
	BufferSize uint
	Buffer     []byte
}

// FileProtocol is a borrowed file protocol call table.
type FileProtocol interface {
	// Revision returns the leading revision field.
	Revision() domain.Revision

	// Open opens fileName relative to this handle and stores the new table
	// in newHandle.
	Open(newHandle *FileProtocol, fileName []uint16, openMode, attributes uint64) domain.Status

	// Close releases the handle.
	Close() domain.Status

	// Delete closes the handle and removes the file.
	Delete() domain.Status

	// Read reads up to *bufferSize bytes and stores the count read.
	Read(bufferSize *uint, buffer []byte) domain.Status

	// Write writes *bufferSize bytes and stores the count written.
	Write(bufferSize *uint, buffer []byte) domain.Status

	// GetPosition stores the current byte offset.
	GetPosition(position *uint64) domain.Status

	// SetPosition moves to an absolute byte offset.
	SetPosition(position uint64) domain.Status

	// GetInfo stores the record selected by infoType. When *bufferSize is
	// too small it stores the required size and returns BufferTooSmall.
	GetInfo(infoType *domain.Guid, bufferSize *uint, buffer []byte) domain.Status

	// SetInfo applies the record selected by infoType.
	SetInfo(infoType *domain.Guid, bufferSize uint, buffer []byte) domain.Status

	// Flush writes buffered data to the device.
	Flush() domain.Status

	// OpenEx is Open completed through token. Revision 2 and later.
	OpenEx(newHandle *FileProtocol, fileName []uint16, openMode, attributes uint64, token *IoToken) domain.Status

	// ReadEx is Read completed through token. Revision 2 and later.
	ReadEx(token *IoToken) domain.Status

	// WriteEx is Write completed through token. Revision 2 and later.
	WriteEx(token *IoToken) domain.Status

	// FlushEx is Flush completed through token. Revision 2 and later.
	FlushEx(token *IoToken) domain.Status
}
