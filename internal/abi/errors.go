package abi

import (
	"fmt"

	"github.com/custodia-labs/firmproto/internal/core/domain"
)

// Layout errors. Each wraps the domain kind a caller would match on.
var (
	// ErrUnterminated indicates trailing text has no NUL within its bound.
	ErrUnterminated = fmt.Errorf("abi: text not terminated within bound: %w", domain.ErrBadBufferSize)

	// ErrSizeBelowHeader indicates a declared size smaller than the fixed header.
	ErrSizeBelowHeader = fmt.Errorf("abi: declared size below header size: %w", domain.ErrBadBufferSize)

	// ErrShortBuffer indicates a buffer shorter than the declared size.
	ErrShortBuffer = fmt.Errorf("abi: buffer shorter than declared size: %w", domain.ErrBadBufferSize)

	// ErrCapacity indicates text that does not fit a fixed-capacity view.
	ErrCapacity = fmt.Errorf("abi: text exceeds record capacity: %w", domain.ErrBufferTooSmall)
)
