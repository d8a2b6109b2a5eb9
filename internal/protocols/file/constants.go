package file

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/firmproto/internal/core/domain"
)

// Revisions of the file protocol call table.
const (
	Revision       domain.Revision = 0x0000_0000_0001_0000
	Revision2      domain.Revision = 0x0000_0000_0002_0000
	LatestRevision                 = Revision2
)

// Tier is the set of slots safe to call on a table.
type Tier uint8

const (
	// TierBase covers open, close, delete, read, write, get/set position,
	// get/set info and flush.
	TierBase Tier = iota + 1
	// TierAsync adds open-ex, read-ex, write-ex and flush-ex.
	TierAsync
)

// TierFor resolves the tier of an observed revision. Revisions below
// Revision expose no slot that is safe to call.
func TierFor(rev domain.Revision) (Tier, error) {
	switch {
	case rev.AtLeast(Revision2):
		return TierAsync, nil
	case rev.AtLeast(Revision):
		return TierBase, nil
	default:
		return 0, domain.NewUnsupported("file.acquire",
			fmt.Sprintf("revision %s below %s", rev, Revision))
	}
}

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierBase:
		return "base"
	case TierAsync:
		return "async"
	default:
		return "none"
	}
}

// Mode is the open mode bit set.
type Mode uint64

// Open modes. The only valid combinations are ModeRead, ModeRead|ModeWrite
// and ModeRead|ModeWrite|ModeCreate.
const (
	ModeRead   Mode = 0x0000000000000001
	ModeWrite  Mode = 0x0000000000000002
	ModeCreate Mode = 0x8000000000000000
)

// Valid reports whether m is one of the three permitted combinations.
func (m Mode) Valid() bool {
	switch m {
	case ModeRead, ModeRead | ModeWrite, ModeRead | ModeWrite | ModeCreate:
		return true
	default:
		return false
	}
}

// Attribute is the file attribute bit set.
type Attribute uint64

// File attributes.
const (
	ReadOnly  Attribute = 0x0000000000000001
	Hidden    Attribute = 0x0000000000000002
	System    Attribute = 0x0000000000000004
	Reserved  Attribute = 0x0000000000000008
	Directory Attribute = 0x0000000000000010
	Archive   Attribute = 0x0000000000000020
	ValidAttr Attribute = 0x0000000000000037
)

// Valid reports whether a only carries defined attribute bits.
func (a Attribute) Valid() bool {
	return a&^ValidAttr == 0
}

// IsDir reports whether the directory bit is set.
func (a Attribute) IsDir() bool {
	return a&Directory != 0
}

var attributeNames = []struct {
	bit  Attribute
	name string
}{
	{ReadOnly, "read-only"},
	{Hidden, "hidden"},
	{System, "system"},
	{Reserved, "reserved"},
	{Directory, "directory"},
	{Archive, "archive"},
}

// String lists the set bits by name, e.g. "read-only|archive".
func (a Attribute) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	for _, n := range attributeNames {
		if a&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if rest := a &^ ValidAttr &^ Reserved; rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint64(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseAttribute accepts the String form, a comma or '|' separated list of
// names, or a number.
func ParseAttribute(s string) (Attribute, error) {
	if s == "" || s == "none" {
		return 0, nil
	}
	if n, err := strconv.ParseUint(s, 0, 64); err == nil {
		return Attribute(n), nil
	}
	var a Attribute
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' }) {
		found := false
		for _, n := range attributeNames {
			if strings.EqualFold(strings.TrimSpace(part), n.name) {
				a |= n.bit
				found = true
			}
		}
		if !found {
			return 0, fmt.Errorf("file: unknown attribute %q: %w", part, domain.ErrInvalidParameter)
		}
	}
	return a, nil
}

// EndOfFile is the set-position sentinel that moves to the end of the file.
const EndOfFile uint64 = 0xFFFFFFFFFFFFFFFF

// GUIDs of the info kinds accepted by get-info and set-info.
var (
	InfoID = domain.GuidFromFields(0x09576e92, 0x6d3f, 0x11d2, 0x8e, 0x39,
		[6]uint8{0x00, 0xa0, 0xc9, 0x69, 0x72, 0x3b})
	SystemInfoID = domain.GuidFromFields(0x09576e93, 0x6d3f, 0x11d2, 0x8e, 0x39,
		[6]uint8{0x00, 0xa0, 0xc9, 0x69, 0x72, 0x3b})
	SystemVolumeLabelID = domain.GuidFromFields(0xdb47d7d3, 0xfe81, 0x11d3, 0x9a, 0x35,
		[6]uint8{0x00, 0x90, 0x27, 0x3f, 0xc1, 0x4d})
)
