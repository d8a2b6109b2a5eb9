// Package file provides the TOML configuration file of the firmproto CLI.
//
// Adapters:
//   - ConfigStore: typed TOML configuration with emulator and serial sections
package file
