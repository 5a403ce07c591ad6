package mapper

import (
	"errors"
	"fmt"
)

var (
	ErrTypeNotFound      = errors.New("type not found in catalog")
	ErrUnsupportedWidth  = errors.New("unsupported integer width")
	ErrUnexpectedKind    = errors.New("unexpected type kind")
	ErrCallingConvention = errors.New("unsupported calling convention")
)

// Error is a fatal mapping failure. It names the platform and the
// declaration being mapped when the failure happened.
type Error struct {
	Platform string
	Symbol   string
	Err      error
}

func (e *Error) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("mapping %s: %v", e.Platform, e.Err)
	}
	return fmt.Sprintf("mapping %s on %s: %v", e.Symbol, e.Platform, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
