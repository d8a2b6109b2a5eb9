// Package driven defines the interfaces that core calls OUT to: the raw
// firmware call tables.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Each interface mirrors one call table slot for slot, in slot order. Every
// method takes its by-value scalars first and its output pointers last, and
// returns the raw domain.Status untranslated. Exact-layout records cross as
// byte slices; text crosses as NUL-terminated CHAR16 units.
//
// Tables are borrowed: implementations own the memory and the core never
// relocates or frees it.
//
// # Interfaces
//
//   - FileProtocol: file and directory access
//   - SerialIO: serial port access
//   - SimplePointer: relative pointer input
//   - Event: notification primitive used by completion tokens
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driven
