package domain

import "fmt"

// Warning is a non-fatal status. The zero value means no warning.
type Warning Status

// IsZero reports whether there is no warning.
func (w Warning) IsZero() bool {
	return w == 0
}

// Code returns the numeric warning code.
func (w Warning) Code() uintptr {
	return Status(w).Code()
}

// Reserved reports whether the warning lives in the reserved band.
func (w Warning) Reserved() bool {
	return Status(w)&WarningBit != 0
}

// String returns the label of the warning.
func (w Warning) String() string {
	if w.IsZero() {
		return "none"
	}
	return warningLabel(Status(w))
}

func warningLabel(s Status) string {
	if s&WarningBit != 0 {
		return fmt.Sprintf("reserved warning %d", s.Code())
	}
	switch s.Code() {
	case WarnUnknownGlyph:
		return "unknown glyph"
	case WarnDeleteFailure:
		return "delete failure"
	case WarnWriteFailure:
		return "write failure"
	case WarnBufferTooSmall:
		return "buffer too small"
	case WarnStaleData:
		return "stale data"
	case WarnFileSystem:
		return "file system"
	default:
		return fmt.Sprintf("unknown warning %d", s.Code())
	}
}

// Check translates a status. Success yields (0, nil); an error status yields
// a *Error; any other status yields a Warning and a nil error, so a warning
// never aborts the calling sequence.
func Check(s Status) (Warning, error) {
	switch {
	case s.IsSuccess():
		return 0, nil
	case s.IsError():
		return 0, &Error{Kind: KindOf(s), Status: s}
	default:
		return Warning(s), nil
	}
}

// CheckOp is Check with the wrapper name recorded on the error.
func CheckOp(op string, s Status) (Warning, error) {
	w, err := Check(s)
	if e, ok := err.(*Error); ok {
		e.Op = op
	}
	return w, err
}
