package firmware

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/firmproto/internal/core/domain"
)

// ErrUnavailable is returned by constructors in builds without cgo.
var ErrUnavailable = fmt.Errorf("firmware: binding requires cgo: %w", domain.ErrUnsupported)

// ErrNilTable is returned when a constructor is given a nil pointer.
var ErrNilTable = errors.New("firmware: nil table pointer")
