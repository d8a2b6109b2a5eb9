// Package file describes the firmware file protocol: its revision tiers,
// GUIDs, open modes, attributes and the exact-layout info records exchanged
// through get-info and set-info.
//
// The protocol is typically obtained via a simple file system protocol
// (out of scope) or by opening a path relative to another file handle.
package file
