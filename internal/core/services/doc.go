// Package services implements the driving port interfaces on top of
// borrowed call tables.
//
// File, SerialPort and Pointer wrap a driven table, resolve its tier once
// at acquisition, validate arguments before any slot is called and turn
// every returned status into a *domain.Error or a domain.Warning.
//
// Services are pure Go with no CGO or external dependencies.
package services
