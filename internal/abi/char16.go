package abi

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/custodia-labs/firmproto/internal/core/domain"
)

// Char16Size is the width of one CHAR16 code unit in bytes.
const Char16Size = 2

var char16 = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// EncodeText returns s as CHAR16 code units followed by a NUL unit.
func EncodeText(s string) ([]byte, error) {
	if strings.ContainsRune(s, 0) {
		return nil, fmt.Errorf("abi: text contains NUL: %w", domain.ErrInvalidParameter)
	}
	units, err := char16.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("abi: encode text: %w", domain.ErrInvalidParameter)
	}
	return append(units, 0, 0), nil
}

// EncodeUnits returns s as NUL-terminated CHAR16 code units.
func EncodeUnits(s string) ([]uint16, error) {
	b, err := EncodeText(s)
	if err != nil {
		return nil, err
	}
	units := make([]uint16, len(b)/Char16Size)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[i*Char16Size:])
	}
	return units, nil
}

// TextUnits returns the number of code units of s, excluding the terminator.
func TextUnits(s string) (int, error) {
	b, err := EncodeText(s)
	if err != nil {
		return 0, err
	}
	return len(b)/Char16Size - 1, nil
}

// DecodeText reads CHAR16 text from b, stopping at the first NUL unit.
// It never reads past len(b); if no terminator lies within b it fails with
// ErrUnterminated. It returns the text and the bytes consumed including the
// terminator.
func DecodeText(b []byte) (string, int, error) {
	end := -1
	for i := 0; i+Char16Size <= len(b); i += Char16Size {
		if b[i] == 0 && b[i+1] == 0 {
			end = i
			break
		}
	}
	if end < 0 {
		return "", 0, ErrUnterminated
	}
	out, err := char16.NewDecoder().Bytes(b[:end])
	if err != nil {
		return "", 0, fmt.Errorf("abi: decode text: %w", domain.ErrInvalidParameter)
	}
	return string(out), end + Char16Size, nil
}

// DecodeUnits converts NUL-terminated code units to a string.
func DecodeUnits(units []uint16) (string, error) {
	b := make([]byte, len(units)*Char16Size)
	for i, u := range units {
		binary.LittleEndian.PutUint16(b[i*Char16Size:], u)
	}
	s, _, err := DecodeText(b)
	return s, err
}
