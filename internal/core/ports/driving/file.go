package driving

import (
	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/protocols/file"
)

// FileHandle is an open file or directory.
type FileHandle interface {
	// Tier returns the capability tier resolved at acquisition.
	Tier() file.Tier

	// Warning returns the warning of the most recent call, if any.
	Warning() domain.Warning

	// Open opens a path relative to this handle.
	Open(name string, mode file.Mode, attrs file.Attribute) (FileHandle, error)

	// Close closes the handle. The handle must not be used afterwards;
	// any further call, Close included, panics without reaching the
	// provider.
	Close() error

	// Delete closes the handle and asks the provider to remove the file.
	// The handle is closed whatever the outcome, with the same rule as
	// Close for later calls.
	Delete() (domain.Warning, error)

	// Read reads into p. A count below len(p) is not an error.
	Read(p []byte) (int, error)

	// Write writes p. A count below len(p) is a partial write the caller
	// must resume.
	Write(p []byte) (int, error)

	// Position returns the current byte offset.
	Position() (uint64, error)

	// SetPosition moves to an absolute offset or file.EndOfFile.
	SetPosition(pos uint64) error

	// GetInfo fills buf with the record selected by id. On
	// domain.ErrBufferTooSmall the error carries the required size.
	GetInfo(id domain.Guid, buf []byte) (int, error)

	// SetInfo applies the exact-layout record in buf.
	SetInfo(id domain.Guid, buf []byte) error

	// Flush flushes buffered data.
	Flush() error

	// OpenAsync submits an asynchronous open completed through ev.
	OpenAsync(name string, mode file.Mode, attrs file.Attribute, ev driven.Event) (OpenCompletion, error)

	// ReadAsync submits an asynchronous read completed through ev.
	ReadAsync(p []byte, ev driven.Event) (Completion, error)

	// WriteAsync submits an asynchronous write completed through ev.
	WriteAsync(p []byte, ev driven.Event) (Completion, error)

	// FlushAsync submits an asynchronous flush completed through ev.
	FlushAsync(ev driven.Event) (Completion, error)
}
