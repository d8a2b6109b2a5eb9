// Package hostserial serves the serial I/O call table from a host serial
// device such as /dev/ttyUSB0, so the serial wrapper can drive real
// hardware outside firmware.
//
// The host driver exposes no modem lines, so only the settable control bits
// are stored and reported back; the line status bits are synthesized.
package hostserial
