package abi

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/firmproto/internal/core/domain"
)

// ParseGuid parses the registry text form of a GUID.
func ParseGuid(s string) (domain.Guid, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return domain.Guid{}, fmt.Errorf("abi: parse guid %q: %w", s, err)
	}
	var g domain.Guid
	g.Data1 = binary.BigEndian.Uint32(u[0:4])
	g.Data2 = binary.BigEndian.Uint16(u[4:6])
	g.Data3 = binary.BigEndian.Uint16(u[6:8])
	copy(g.Data4[:], u[8:16])
	return g, nil
}

// FormatGuid returns the registry text form of g.
func FormatGuid(g domain.Guid) string {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], g.Data1)
	binary.BigEndian.PutUint16(u[4:6], g.Data2)
	binary.BigEndian.PutUint16(u[6:8], g.Data3)
	copy(u[8:16], g.Data4[:])
	return u.String()
}

// PutGuid writes the in-memory layout of g at b[0:16].
func PutGuid(b []byte, g domain.Guid) {
	raw := g.Bytes()
	copy(b[:domain.GuidSize], raw[:])
}
