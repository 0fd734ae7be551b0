package bridgegen

import "errors"

// Generation rules. Every failure wraps exactly one of these.
var (
	ErrReturnKind        = errors.New("does not return an error code")
	ErrCallingConvention = errors.New("calling convention violated")
	ErrUnknownType       = errors.New("unsupported type")
	ErrUnpairedBuffer    = errors.New("buffer pointer not followed by a _len length")
	ErrUnsupportedShape  = errors.New("unsupported callback shape")
	ErrDuplicate         = errors.New("duplicate entry point")
)

// GenError is a fatal generation error naming the function and, where there
// is one, the offending parameter.
type GenError struct {
	Function string
	Param    string
	Err      error
	Detail   string
}

func (e *GenError) Error() string {
	msg := e.Function
	if e.Param != "" {
		msg += ": parameter " + e.Param
	}
	msg += ": " + e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *GenError) Unwrap() error {
	return e.Err
}
