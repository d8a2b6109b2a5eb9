package domain

import "fmt"

// Revision is the leading revision field of a call table. Major version in
// the upper 16 bits, minor in the lower 16.
type Revision uint64

// AtLeast reports whether r satisfies the threshold (unsigned >=).
func (r Revision) AtLeast(threshold Revision) bool {
	return r >= threshold
}

// Major returns the upper 16 bits of the low word.
func (r Revision) Major() uint16 {
	return uint16(r >> 16)
}

// Minor returns the low 16 bits.
func (r Revision) Minor() uint16 {
	return uint16(r)
}

// String returns "major.minor" followed by the raw value.
func (r Revision) String() string {
	return fmt.Sprintf("%d.%d (0x%08x)", r.Major(), r.Minor(), uint64(r))
}
