// Package domain defines the core types shared by every firmware call table.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Status: The pointer-width result code returned by every foreign slot
//   - Error: A translated error status with its ErrorKind
//   - Warning: A translated non-fatal status
//   - Guid: The 128-bit identity tag of protocols and info blocks
//   - Revision: The leading revision field of a call table
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
