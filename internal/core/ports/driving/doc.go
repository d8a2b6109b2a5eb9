// Package driving defines interfaces that external actors (CLI, firmware
// applications) use to work with a borrowed call table. These are the
// "driving" ports in hexagonal architecture terminology.
//
// Every method validates its arguments locally, gates on the tier resolved
// when the table was acquired, translates the provider status into a
// *domain.Error or a domain.Warning, and never retries on its own.
//
// Implementations of these interfaces live in internal/core/services.
package driving
