// Package firmware binds the driven call table ports to real firmware
// tables reached through raw pointers. Every slot is invoked through a C
// trampoline using the firmware calling convention.
//
// Without cgo the constructors fail with ErrUnavailable.
package firmware
