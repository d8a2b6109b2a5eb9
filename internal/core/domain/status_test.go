package domain

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Bands(t *testing.T) {
	tests := []struct {
		name    string
		status  Status
		success bool
		isErr   bool
		warning bool
	}{
		{"success", Success, true, false, false},
		{"not found", ErrorStatus(CodeNotFound), false, true, false},
		{"delete failure", WarningStatus(WarnDeleteFailure), false, false, true},
		{"reserved warning", WarningBit | 7, false, false, true},
		{"error with warning bit", ErrorBit | WarningBit | 3, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.success, tt.status.IsSuccess())
			assert.Equal(t, tt.isErr, tt.status.IsError())
			assert.Equal(t, tt.warning, tt.status.IsWarning())
		})
	}
}

func TestStatus_ExactlyOneBand(t *testing.T) {
	values := []Status{
		0, 1, 2, 31, 1 << 20,
		WarningBit, WarningBit | 1,
		ErrorBit, ErrorBit | 1, ErrorBit | WarningBit,
		^Status(0),
	}
	for _, s := range values {
		n := 0
		for _, b := range []bool{s.IsSuccess(), s.IsError(), s.IsWarning()} {
			if b {
				n++
			}
		}
		assert.Equal(t, 1, n, "status %#x", uintptr(s))
	}
}

func TestStatus_ErrorBitIsTopBit(t *testing.T) {
	assert.Equal(t, Status(1)<<(bits.UintSize-1), ErrorBit)
	assert.Equal(t, ErrorBit>>1, WarningBit)
	assert.Equal(t, CodeNotFound, ErrorStatus(CodeNotFound).Code())
	assert.Equal(t, WarnWriteFailure, WarningStatus(WarnWriteFailure).Code())
}

func TestStatus_To32(t *testing.T) {
	assert.Equal(t, uint32(0x8000000E), ErrorStatus(CodeNotFound).To32())
	assert.Equal(t, uint32(2), WarningStatus(WarnDeleteFailure).To32())
	assert.Equal(t, uint32(0x40000001), (WarningBit | 1).To32())
	assert.Equal(t, uint32(0), Success.To32())
}

func TestStatusFrom32(t *testing.T) {
	for _, s := range []Status{
		Success,
		ErrorStatus(CodeBufferTooSmall),
		ErrorStatus(CodeEndOfFile),
		WarningStatus(WarnStaleData),
		WarningBit | 4,
	} {
		assert.Equal(t, s, StatusFrom32(s.To32()), "status %s", s)
	}
	assert.True(t, StatusFrom32(0x80000005).IsError())
	assert.Equal(t, KindBufferTooSmall, KindOf(StatusFrom32(0x80000005)))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "error 14 (not found)", ErrorStatus(CodeNotFound).String())
	assert.Equal(t, "error 99 (unknown code 99)", ErrorStatus(99).String())
	assert.Equal(t, "warning 2 (delete failure)", WarningStatus(WarnDeleteFailure).String())
	assert.Equal(t, "warning 9 (reserved warning 9)", (WarningBit | 9).String())
}
