package abi

import (
	"encoding/binary"
	"time"
)

// TimeSize is the size of a firmware Time record.
const TimeSize = 16

// UnspecifiedTimezone marks a Time in local time.
const UnspecifiedTimezone int16 = 0x07FF

// Daylight flags.
const (
	DaylightAdjust uint8 = 0x01
	DaylightInDST  uint8 = 0x02
)

// Time is the firmware time record.
//
// Wire format (16 bytes):
//
//	Offset  Size  Field
//	0       2     Year        1900..9999
//	2       1     Month       1..12
//	3       1     Day         1..31
//	4       1     Hour        0..23
//	5       1     Minute      0..59
//	6       1     Second      0..59
//	7       1     Pad1
//	8       4     Nanosecond  0..999999999
//	12      2     TimeZone    minutes from UTC, -1440..1440 or 0x07FF
//	14      1     Daylight
//	15      1     Pad2
type Time struct {
	Year       uint16
	Month      uint8
	Day        uint8
	Hour       uint8
	Minute     uint8
	Second     uint8
	Nanosecond uint32
	TimeZone   int16
	Daylight   uint8
}

// IsZero reports whether t is the all-zero record, which set-info treats as
// "do not update".
func (t Time) IsZero() bool {
	return t == Time{}
}

// Encode writes t at b[0:16].
func (t Time) Encode(b []byte) {
	_ = b[TimeSize-1]
	binary.LittleEndian.PutUint16(b[0:2], t.Year)
	b[2] = t.Month
	b[3] = t.Day
	b[4] = t.Hour
	b[5] = t.Minute
	b[6] = t.Second
	b[7] = 0
	binary.LittleEndian.PutUint32(b[8:12], t.Nanosecond)
	binary.LittleEndian.PutUint16(b[12:14], uint16(t.TimeZone))
	b[14] = t.Daylight
	b[15] = 0
}

// DecodeTime reads a Time from b[0:16].
func DecodeTime(b []byte) Time {
	_ = b[TimeSize-1]
	return Time{
		Year:       binary.LittleEndian.Uint16(b[0:2]),
		Month:      b[2],
		Day:        b[3],
		Hour:       b[4],
		Minute:     b[5],
		Second:     b[6],
		Nanosecond: binary.LittleEndian.Uint32(b[8:12]),
		TimeZone:   int16(binary.LittleEndian.Uint16(b[12:14])),
		Daylight:   b[14],
	}
}

// TimeFrom converts a Go time. The zero time.Time maps to the zero record.
func TimeFrom(t time.Time) Time {
	if t.IsZero() {
		return Time{}
	}
	_, offset := t.Zone()
	return Time{
		Year:       uint16(t.Year()),
		Month:      uint8(t.Month()),
		Day:        uint8(t.Day()),
		Hour:       uint8(t.Hour()),
		Minute:     uint8(t.Minute()),
		Second:     uint8(t.Second()),
		Nanosecond: uint32(t.Nanosecond()),
		TimeZone:   int16(offset / 60),
	}
}

// GoTime converts to a Go time. The zero record maps to the zero time.Time;
// an unspecified time zone is read as local time.
func (t Time) GoTime() time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	loc := time.Local
	if t.TimeZone != UnspecifiedTimezone {
		loc = time.FixedZone("", int(t.TimeZone)*60)
	}
	return time.Date(int(t.Year), time.Month(t.Month), int(t.Day),
		int(t.Hour), int(t.Minute), int(t.Second), int(t.Nanosecond), loc)
}
