package domain

import (
	"fmt"
	"math/bits"
)

// Status is the result code returned by every foreign slot.
// It is an unsigned integer of platform pointer width.
type Status uintptr

const (
	// ErrorBit is the top bit of a Status. Set means the call failed.
	ErrorBit Status = 1 << (bits.UintSize - 1)

	// WarningBit is the reserved bit below ErrorBit. Warnings never carry
	// ErrorBit.
	WarningBit Status = 1 << (bits.UintSize - 2)

	// codeMask keeps the numeric code of a status.
	codeMask = ^(ErrorBit | WarningBit)
)

// Success is the only status meaning "no problem".
const Success Status = 0

// Numeric error codes. The matching Status is ErrorStatus(code).
const (
	CodeLoadError           uintptr = 1
	CodeInvalidParameter    uintptr = 2
	CodeUnsupported         uintptr = 3
	CodeBadBufferSize       uintptr = 4
	CodeBufferTooSmall      uintptr = 5
	CodeNotReady            uintptr = 6
	CodeDeviceError         uintptr = 7
	CodeWriteProtected      uintptr = 8
	CodeOutOfResources      uintptr = 9
	CodeVolumeCorrupted     uintptr = 10
	CodeVolumeFull          uintptr = 11
	CodeNoMedia             uintptr = 12
	CodeMediaChanged        uintptr = 13
	CodeNotFound            uintptr = 14
	CodeAccessDenied        uintptr = 15
	CodeNoResponse          uintptr = 16
	CodeNoMapping           uintptr = 17
	CodeTimeout             uintptr = 18
	CodeNotStarted          uintptr = 19
	CodeAlreadyStarted      uintptr = 20
	CodeAborted             uintptr = 21
	CodeIcmpError           uintptr = 22
	CodeTftpError           uintptr = 23
	CodeProtocolError       uintptr = 24
	CodeIncompatibleVersion uintptr = 25
	CodeSecurityViolation   uintptr = 26
	CodeCrcError            uintptr = 27
	CodeEndOfMedia          uintptr = 28
	CodeEndOfFile           uintptr = 31
	CodeInvalidLanguage     uintptr = 32
	CodeCompromisedData     uintptr = 33
)

// Numeric warning codes. Warnings are returned without ErrorBit.
const (
	WarnUnknownGlyph   uintptr = 1
	WarnDeleteFailure  uintptr = 2
	WarnWriteFailure   uintptr = 3
	WarnBufferTooSmall uintptr = 4
	WarnStaleData      uintptr = 5
	WarnFileSystem     uintptr = 6
)

// ErrorStatus returns the error status carrying code.
func ErrorStatus(code uintptr) Status {
	return ErrorBit | (Status(code) & codeMask)
}

// WarningStatus returns the warning status carrying code.
func WarningStatus(code uintptr) Status {
	return Status(code) & codeMask
}

// IsSuccess reports whether s is exactly Success.
func (s Status) IsSuccess() bool {
	return s == Success
}

// IsError reports whether the error bit is set.
func (s Status) IsError() bool {
	return s&ErrorBit != 0
}

// IsWarning reports whether s is a non-zero status without the error bit.
// This covers both the standard warning codes and the reserved warning band.
func (s Status) IsWarning() bool {
	return s != Success && !s.IsError()
}

// Code returns the numeric code with the band bits stripped.
func (s Status) Code() uintptr {
	return uintptr(s & codeMask)
}

// To32 re-encodes s for a 32-bit provider (error bit 31, warning bit 30).
func (s Status) To32() uint32 {
	out := uint32(s.Code()) &^ (1<<31 | 1<<30)
	if s.IsError() {
		out |= 1 << 31
	}
	if s&WarningBit != 0 {
		out |= 1 << 30
	}
	return out
}

// StatusFrom32 relocates a status produced by a 32-bit provider onto the
// host width.
func StatusFrom32(raw uint32) Status {
	s := Status(raw &^ (1<<31 | 1<<30))
	if raw&(1<<31) != 0 {
		s |= ErrorBit
	}
	if raw&(1<<30) != 0 {
		s |= WarningBit
	}
	return s
}

// String returns a short description, e.g. "error 14 (not found)".
func (s Status) String() string {
	switch {
	case s.IsSuccess():
		return "success"
	case s.IsError():
		return fmt.Sprintf("error %d (%s)", s.Code(), KindOf(s).Label(s.Code()))
	default:
		return fmt.Sprintf("warning %d (%s)", s.Code(), warningLabel(s))
	}
}
