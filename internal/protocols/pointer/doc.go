// Package pointer describes the firmware simple pointer protocol: relative
// movement and button state of a mouse-like device.
//
// The call table has no revision field, so every slot is always present.
package pointer
