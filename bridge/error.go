package bridge

import (
	"errors"
	"fmt"

	"github.com/indywasm/indywasm/native"
)

var (
	// ErrInvalidArgument is wrapped by every entry point validation failure.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrShapeMismatch means a completion arrived through a trampoline whose
	// shape differs from the one the call was registered with.
	ErrShapeMismatch = errors.New("completion shape mismatch")
	// ErrMalformedPayload means the native payload does not match its shape.
	ErrMalformedPayload = errors.New("malformed completion payload")
)

// Error is a non-zero error code reported by the native SDK.
type Error struct {
	Code      native.ErrorCode
	Message   string
	Backtrace string
}

// NewError builds an Error whose message is the code's name.
func NewError(code native.ErrorCode) *Error {
	return &Error{Code: code, Message: native.CodeName(code)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("indy error %d: %s", e.Code, e.Message)
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the native error code carried by err, if any.
func CodeOf(err error) (native.ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return native.Success, false
}

// ArgError describes an entry point called with the wrong arguments. The
// native function is never invoked when one is returned.
type ArgError struct {
	Usage  string
	Reason string
}

func (e *ArgError) Error() string {
	return e.Reason + ": " + e.Usage
}

func (e *ArgError) Unwrap() error {
	return ErrInvalidArgument
}
