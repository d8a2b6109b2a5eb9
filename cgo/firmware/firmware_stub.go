//go:build !cgo

package firmware

import (
	"unsafe"
)

// Events holds firmware event services.
// This is a stub for builds without CGO.
type Events struct{}

// NewEvents wraps firmware event services.
func NewEvents(_ unsafe.Pointer) (*Events, error) {
	return nil, ErrUnavailable
}

// FileTable is a borrowed firmware file protocol table.
// This is a stub for builds without CGO.
type FileTable struct{}

// NewFileTable wraps a firmware file protocol table.
func NewFileTable(_ unsafe.Pointer) (*FileTable, error) {
	return nil, ErrUnavailable
}

// Serial is a borrowed firmware serial I/O table.
// This is a stub for builds without CGO.
type Serial struct{}

// NewSerial wraps a firmware serial I/O table.
func NewSerial(_ unsafe.Pointer) (*Serial, error) {
	return nil, ErrUnavailable
}

// Pointer is a borrowed firmware simple pointer table.
// This is a stub for builds without CGO.
type Pointer struct{}

// NewPointer wraps a firmware simple pointer table.
func NewPointer(_ unsafe.Pointer, _ *Events) (*Pointer, error) {
	return nil, ErrUnavailable
}
