package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per ErrorKind. A translated *Error unwraps to the
// sentinel of its kind so callers match with errors.Is.
var (
	// ErrNotFound indicates the requested file or device does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied indicates the provider refused access.
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyExists indicates the target already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrBufferTooSmall indicates the caller's buffer cannot hold the result.
	// The *Error carries the required size; the caller reallocates and calls again.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrWriteProtected indicates the medium cannot be written.
	ErrWriteProtected = errors.New("write protected")

	// ErrVolumeFull indicates there is no space left on the volume.
	ErrVolumeFull = errors.New("volume full")

	// ErrNoMedia indicates the device holds no medium.
	ErrNoMedia = errors.New("no media")

	// ErrMediaChanged indicates the medium changed since the handle was opened.
	ErrMediaChanged = errors.New("media changed")

	// ErrDeviceError indicates a hardware or provider failure.
	ErrDeviceError = errors.New("device error")

	// ErrUnsupported indicates the operation is not available, including
	// operations gated on a higher table revision than the one observed.
	ErrUnsupported = errors.New("unsupported")

	// ErrInvalidParameter indicates a rejected argument. Raised locally
	// before any foreign call, or returned by the provider.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrTimeout indicates the operation timed out.
	ErrTimeout = errors.New("timeout")

	// ErrAborted indicates the operation was aborted.
	ErrAborted = errors.New("aborted")

	// ErrNotReady indicates there is no data available yet.
	ErrNotReady = errors.New("not ready")

	// ErrOutOfResources indicates the provider ran out of resources.
	ErrOutOfResources = errors.New("out of resources")

	// ErrVolumeCorrupted indicates the file system structures are damaged.
	ErrVolumeCorrupted = errors.New("volume corrupted")

	// ErrEndOfFile indicates a read past the end of a file.
	ErrEndOfFile = errors.New("end of file")

	// ErrBadBufferSize indicates the buffer size does not match the request.
	ErrBadBufferSize = errors.New("bad buffer size")

	// ErrSecurityViolation indicates a security policy rejected the call.
	ErrSecurityViolation = errors.New("security violation")

	// ErrUnknown indicates an error code outside the named taxonomy.
	ErrUnknown = errors.New("unknown error")
)

// ErrorKind is the closed set of error causes surfaced to callers.
type ErrorKind uint8

// Error kinds.
const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindAccessDenied
	KindAlreadyExists
	KindBufferTooSmall
	KindWriteProtected
	KindVolumeFull
	KindNoMedia
	KindMediaChanged
	KindDeviceError
	KindUnsupported
	KindInvalidParameter
	KindTimeout
	KindAborted
	KindNotReady
	KindOutOfResources
	KindVolumeCorrupted
	KindEndOfFile
	KindBadBufferSize
	KindSecurityViolation
)

var kindSentinels = map[ErrorKind]error{
	KindUnknown:           ErrUnknown,
	KindNotFound:          ErrNotFound,
	KindAccessDenied:      ErrAccessDenied,
	KindAlreadyExists:     ErrAlreadyExists,
	KindBufferTooSmall:    ErrBufferTooSmall,
	KindWriteProtected:    ErrWriteProtected,
	KindVolumeFull:        ErrVolumeFull,
	KindNoMedia:           ErrNoMedia,
	KindMediaChanged:      ErrMediaChanged,
	KindDeviceError:       ErrDeviceError,
	KindUnsupported:       ErrUnsupported,
	KindInvalidParameter:  ErrInvalidParameter,
	KindTimeout:           ErrTimeout,
	KindAborted:           ErrAborted,
	KindNotReady:          ErrNotReady,
	KindOutOfResources:    ErrOutOfResources,
	KindVolumeCorrupted:   ErrVolumeCorrupted,
	KindEndOfFile:         ErrEndOfFile,
	KindBadBufferSize:     ErrBadBufferSize,
	KindSecurityViolation: ErrSecurityViolation,
}

var codeKinds = map[uintptr]ErrorKind{
	CodeInvalidParameter:  KindInvalidParameter,
	CodeUnsupported:       KindUnsupported,
	CodeBadBufferSize:     KindBadBufferSize,
	CodeBufferTooSmall:    KindBufferTooSmall,
	CodeNotReady:          KindNotReady,
	CodeDeviceError:       KindDeviceError,
	CodeWriteProtected:    KindWriteProtected,
	CodeOutOfResources:    KindOutOfResources,
	CodeVolumeCorrupted:   KindVolumeCorrupted,
	CodeVolumeFull:        KindVolumeFull,
	CodeNoMedia:           KindNoMedia,
	CodeMediaChanged:      KindMediaChanged,
	CodeNotFound:          KindNotFound,
	CodeAccessDenied:      KindAccessDenied,
	CodeTimeout:           KindTimeout,
	CodeAlreadyStarted:    KindAlreadyExists,
	CodeAborted:           KindAborted,
	CodeSecurityViolation: KindSecurityViolation,
	CodeEndOfFile:         KindEndOfFile,
}

// KindOf classifies an error status. Unrecognised codes map to KindUnknown.
func KindOf(s Status) ErrorKind {
	if k, ok := codeKinds[s.Code()]; ok {
		return k
	}
	return KindUnknown
}

// Sentinel returns the sentinel error of the kind.
func (k ErrorKind) Sentinel() error {
	if err, ok := kindSentinels[k]; ok {
		return err
	}
	return ErrUnknown
}

// Label returns the human label of the kind. Unknown kinds are labelled
// with their numeric code.
func (k ErrorKind) Label(code uintptr) string {
	if k == KindUnknown {
		return fmt.Sprintf("unknown code %d", code)
	}
	return k.Sentinel().Error()
}

// String returns the label of the kind without a code.
func (k ErrorKind) String() string {
	if k == KindUnknown {
		return "unknown"
	}
	return k.Sentinel().Error()
}

// Error is a translated error status.
type Error struct {
	// Op names the wrapper that produced the error, e.g. "file.open".
	Op string

	// Kind is the classified cause.
	Kind ErrorKind

	// Status is the raw status. For local failures it is the status the
	// provider would have used for the same cause.
	Status Status

	// Required is the size the provider asked for. Only set for
	// KindBufferTooSmall.
	Required uint64

	// Local is true when the error was raised before any foreign call.
	Local bool

	// Reason details a local failure.
	Reason string
}

// Error implements error.
func (e *Error) Error() string {
	msg := e.Kind.Label(e.Status.Code())
	if e.Kind == KindBufferTooSmall && e.Required > 0 {
		msg = fmt.Sprintf("%s (need %d bytes)", msg, e.Required)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

// Unwrap returns the sentinel error of the kind.
func (e *Error) Unwrap() error {
	return e.Kind.Sentinel()
}

// NewInvalidParameter returns a local InvalidParameter error.
func NewInvalidParameter(op, reason string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidParameter,
		Status: ErrorStatus(CodeInvalidParameter),
		Local:  true,
		Reason: reason,
	}
}

// NewUnsupported returns a local Unsupported error.
func NewUnsupported(op, reason string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindUnsupported,
		Status: ErrorStatus(CodeUnsupported),
		Local:  true,
		Reason: reason,
	}
}

// RequiredSize returns the size carried by a BufferTooSmall error.
func RequiredSize(err error) (uint64, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindBufferTooSmall {
		return e.Required, true
	}
	return 0, false
}
