// Package emulated provides in-memory implementations of the driven call
// table ports. They behave like a firmware provider, slot for slot, and add
// what tests need on top: per-slot call counters, injected statuses, and
// deferred completion of asynchronous tokens in any order.
//
// Adapters:
//   - Volume / file tables: an in-memory file system behind driven.FileProtocol
//   - Serial: a loopback port behind driven.SerialIO
//   - Pointer: a queue of pointer states behind driven.SimplePointer
//   - Event: a driven.Event backed by a channel
package emulated
