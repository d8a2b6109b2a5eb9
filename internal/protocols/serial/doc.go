// Package serial describes the firmware serial I/O protocol: revision tiers,
// attribute enumerations, control bits and the Mode record.
package serial
