package micaps

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFormat      = errors.New("micaps: unrecognized file header")
	ErrUnsupportedVariant = errors.New("micaps: unsupported data variant")
	ErrDecoderState       = errors.New("micaps: decoder is not in a usable state")
	ErrNoVariable         = errors.New("micaps: no such variable")
	ErrWindow             = errors.New("micaps: invalid read window")
	ErrNotGrid            = errors.New("micaps: dataset is not gridded")
	ErrNotStation         = errors.New("micaps: dataset has no station records")
)

// 文件读取或解码错误
type IOError struct {
	Path   string
	Offset int64
	Op     string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("micaps: %s %s at offset %d: %v", e.Op, e.Path, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// 记录数与文件头声明不符
type StructuralError struct {
	Path     string
	Line     int
	Expected int
	Found    int
	Reason   string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("micaps: %s line %d: %s (expected %d, found %d)",
		e.Path, e.Line, e.Reason, e.Expected, e.Found)
}
