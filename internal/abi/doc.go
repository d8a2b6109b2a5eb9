// Package abi converts between Go values and the exact byte layouts used at
// the firmware call boundary.
//
// Every record is encoded field by field at its fixed offset with
// encoding/binary; nothing relies on Go struct layout. Text crosses the
// boundary as NUL-terminated little-endian CHAR16 code units and never leaves
// this package in that form: callers see Go strings.
//
// # Import Rules
//
//   - Can Import: domain, golang.org/x/text, github.com/google/uuid
//   - Cannot Import: ports, services, adapters
package abi
