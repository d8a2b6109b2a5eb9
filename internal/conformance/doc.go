// Package conformance holds end-to-end scenarios that drive the safe
// wrappers against the emulated providers. The selftest command runs them,
// and so does this package's test suite.
package conformance
