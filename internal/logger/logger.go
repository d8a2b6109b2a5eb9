// Package logger provides verbose logging for firmproto.
// When verbose mode is enabled via the --verbose flag, every foreign slot
// invocation and its status is traced to stderr, which is usually the only
// way to see what a provider actually returned.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	calls   uint64
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	emit("DEBUG", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	emit("INFO", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	emit("WARN", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Call traces one foreign slot invocation and the status it returned.
// Calls are numbered in the order they were traced.
func Call(slot string, status fmt.Stringer) {
	mu.Lock()
	defer mu.Unlock()
	calls++
	if verbose {
		fmt.Fprintf(output, "[CALL #%d] %s -> %s\n", calls, slot, status)
	}
}

// Calls returns the number of slot invocations traced so far.
func Calls() uint64 {
	mu.RLock()
	defer mu.RUnlock()
	return calls
}

func emit(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
	}
}
