package shape

import (
	"errors"
	"fmt"
)

var (
	ErrInvariant       = errors.New("shape: structural invariant violated")
	ErrUnsupportedGeom = errors.New("shape: unsupported geometry type")
)

// parts数组非法、退化环或下标越界
type InvariantError struct {
	Reason string
	Index  int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("shape: %s (index %d)", e.Reason, e.Index)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }
