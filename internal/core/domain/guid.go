package domain

import (
	"encoding/binary"
	"fmt"
)

// GuidSize is the size of a Guid in memory.
const GuidSize = 16

// Guid is a 128-bit identity tag. Values compare with ==.
type Guid struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]uint8
}

// GuidFromFields builds a Guid from its registry fields: the time fields,
// the two clock-sequence bytes and the six node bytes.
func GuidFromFields(timeLow uint32, timeMid, timeHiAndVersion uint16,
	clockSeqHiAndReserved, clockSeqLow uint8, node [6]uint8) Guid {
	return Guid{
		Data1: timeLow,
		Data2: timeMid,
		Data3: timeHiAndVersion,
		Data4: [8]uint8{
			clockSeqHiAndReserved, clockSeqLow,
			node[0], node[1], node[2], node[3], node[4], node[5],
		},
	}
}

// Bytes returns the in-memory layout: Data1..Data3 little-endian, Data4 as is.
func (g Guid) Bytes() [GuidSize]byte {
	var b [GuidSize]byte
	binary.LittleEndian.PutUint32(b[0:4], g.Data1)
	binary.LittleEndian.PutUint16(b[4:6], g.Data2)
	binary.LittleEndian.PutUint16(b[6:8], g.Data3)
	copy(b[8:], g.Data4[:])
	return b
}

// GuidFromBytes decodes the in-memory layout produced by Bytes.
func GuidFromBytes(b []byte) (Guid, error) {
	if len(b) < GuidSize {
		return Guid{}, fmt.Errorf("guid: need %d bytes, got %d", GuidSize, len(b))
	}
	var g Guid
	g.Data1 = binary.LittleEndian.Uint32(b[0:4])
	g.Data2 = binary.LittleEndian.Uint16(b[4:6])
	g.Data3 = binary.LittleEndian.Uint16(b[6:8])
	copy(g.Data4[:], b[8:16])
	return g, nil
}

// IsZero reports whether every field is zero.
func (g Guid) IsZero() bool {
	return g == Guid{}
}

// String returns the registry form, e.g. 09576e92-6d3f-11d2-8e39-00a0c969723b.
func (g Guid) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1],
		g.Data4[2], g.Data4[3], g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}
